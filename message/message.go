package message

const (
	KindHello        = "hello"
	KindAuthOk       = "auth_ok"
	KindNeedAuth     = "need_auth"
	KindPing         = "ping"
	KindPong         = "pong"
	KindRegister     = "register"
	KindUnregister   = "unregister"
	KindRegistered   = "registered"
	KindUnregistered = "unregistered"
	KindSendJoules   = "send_joules"
	KindSentJoules   = "sent_joules"
	KindRecvJoules   = "recv_joules"
	KindGotJoules    = "got_joules"
	KindSendPacket   = "send_packet"
	KindSentPacket   = "sent_packet"
	KindRecvPacket   = "recv_packet"
	KindGotPacket    = "got_packet"
)

// Message is one oniz wire record.
type Message interface {
	Kind() string
}

// Located is a record bound to one tile.
type Located interface {
	Message
	Coord() Tile
}

// Request is a located record awaiting a cookie-correlated response;
// exactly the send/recv joules and packet kinds implement it. The
// unexported marker keeps response kinds, which also carry a cookie,
// out of the set.
type Request interface {
	Located
	CookieValue() uint64
	SetCookie(uint64)
	isRequest()
}

// Response is a located record carrying a correlation cookie.
type Response interface {
	Located
	CookieValue() uint64
}

// Correlation carries the request/response matching cookie.
type Correlation struct {
	Cookie uint64 `json:"cookie"`
}

func (c *Correlation) CookieValue() uint64 {
	return c.Cookie
}

func (c *Correlation) SetCookie(cookie uint64) {
	c.Cookie = cookie
}
