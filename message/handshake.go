package message

const (
	ProtoName    = "oniz"
	ProtoVersion = 0
)

type Hello struct {
	Type    string `json:"type"`
	Proto   string `json:"proto"`
	Version int    `json:"version"`
}

func NewHello() *Hello {
	return &Hello{
		Type:    KindHello,
		Proto:   ProtoName,
		Version: ProtoVersion,
	}
}

func (m *Hello) Kind() string {
	return KindHello
}

type AuthOk struct {
	Type string `json:"type"`
}

func NewAuthOk() *AuthOk {
	return &AuthOk{
		Type: KindAuthOk,
	}
}

func (m *AuthOk) Kind() string {
	return KindAuthOk
}

// NeedAuth may carry negotiation fields beyond Method; they are ignored
// since authentication is not supported.
type NeedAuth struct {
	Type   string `json:"type"`
	Method string `json:"method,omitempty"`
}

func NewNeedAuth(method string) *NeedAuth {
	return &NeedAuth{
		Type:   KindNeedAuth,
		Method: method,
	}
}

func (m *NeedAuth) Kind() string {
	return KindNeedAuth
}
