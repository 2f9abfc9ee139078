package message

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeHello(t *testing.T) {
	buf, err := Encode(NewHello())
	require.NoError(t, err)
	assert.True(t, bytes.HasSuffix(buf, []byte("\n")))

	msg, err := Decode(buf)
	require.NoError(t, err)
	hello, ok := msg.(*Hello)
	require.True(t, ok)
	assert.Equal(t, ProtoName, hello.Proto)
	assert.Equal(t, ProtoVersion, hello.Version)
}

func TestDecodeRequestFields(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"send_joules","x":3,"y":-4,"cookie":9,"joules":120}`))
	require.NoError(t, err)
	req, ok := msg.(*SendJoules)
	require.True(t, ok)
	assert.Equal(t, Tile{X: 3, Y: -4}, req.Coord())
	assert.Equal(t, uint64(9), req.CookieValue())
	assert.Equal(t, int64(120), req.Joules)
}

func TestDecodeUnknownKind(t *testing.T) {
	_, err := Decode([]byte(`{"type":"warp_field","x":1,"y":2}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode([]byte(`{"type":`))
	assert.Error(t, err)
}

func TestDecodeNeedAuthIgnoresExtraFields(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"need_auth","method":"token","realm":"oniz"}`))
	require.NoError(t, err)
	na, ok := msg.(*NeedAuth)
	require.True(t, ok)
	assert.Equal(t, "token", na.Method)
}

func TestGotPacketNullPayload(t *testing.T) {
	buf, err := Encode(NewGotPacket(1, 2, 7, 3, nil))
	require.NoError(t, err)
	assert.Contains(t, string(buf), `"packet":null`)

	msg, err := Decode(buf)
	require.NoError(t, err)
	got, ok := msg.(*GotPacket)
	require.True(t, ok)
	assert.Equal(t, "null", string(got.Packet))
}

func TestReadMessageFraming(t *testing.T) {
	wire := `{"type":"ping"}` + "\n" + `{"type":"registered","x":1,"y":2,"what":"lamp"}` + "\n"
	br := bufio.NewReader(strings.NewReader(wire))

	first, err := ReadMessage(br)
	require.NoError(t, err)
	assert.IsType(t, &Ping{}, first)

	second, err := ReadMessage(br)
	require.NoError(t, err)
	reg, ok := second.(*Registered)
	require.True(t, ok)
	assert.Equal(t, "lamp", reg.What)
	assert.Equal(t, Tile{X: 1, Y: 2}, reg.Coord())

	_, err = ReadMessage(br)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadMessageOversizeLine(t *testing.T) {
	br := bufio.NewReaderSize(strings.NewReader(strings.Repeat("a", 100)), 16)

	_, err := ReadMessage(br)
	assert.ErrorIs(t, err, bufio.ErrBufferFull)
}
