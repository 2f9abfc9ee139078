package message

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MaxLineLen bounds one encoded record on the wire; connections feeding
// longer lines are torn down as faulty.
const MaxLineLen = 64 * 1024

var ErrUnknownKind = errors.New("unknown message kind")

// Encode renders one record as a newline-terminated UTF-8 JSON line.
func Encode(m Message) ([]byte, error) {
	buf, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", m.Kind(), err)
	}
	return append(buf, '\n'), nil
}

// Decode parses one line into its concrete record type, selected by the
// type key.
func Decode(line []byte) (Message, error) {
	line = bytes.TrimSpace(line)

	var probe struct {
		Type string `json:"type"`
	}
	err := json.Unmarshal(line, &probe)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	var m Message
	switch probe.Type {
	case KindHello:
		m = &Hello{}
	case KindAuthOk:
		m = &AuthOk{}
	case KindNeedAuth:
		m = &NeedAuth{}
	case KindPing:
		m = &Ping{}
	case KindPong:
		m = &Pong{}
	case KindRegister:
		m = &Register{}
	case KindUnregister:
		m = &Unregister{}
	case KindRegistered:
		m = &Registered{}
	case KindUnregistered:
		m = &Unregistered{}
	case KindSendJoules:
		m = &SendJoules{}
	case KindSentJoules:
		m = &SentJoules{}
	case KindRecvJoules:
		m = &RecvJoules{}
	case KindGotJoules:
		m = &GotJoules{}
	case KindSendPacket:
		m = &SendPacket{}
	case KindSentPacket:
		m = &SentPacket{}
	case KindRecvPacket:
		m = &RecvPacket{}
	case KindGotPacket:
		m = &GotPacket{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, probe.Type)
	}

	err = json.Unmarshal(line, m)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", probe.Type, err)
	}
	return m, nil
}

// ReadMessage reads and decodes one line. A line exceeding the reader
// buffer surfaces bufio.ErrBufferFull, which ends the connection.
func ReadMessage(br *bufio.Reader) (Message, error) {
	line, err := br.ReadSlice('\n')
	if err != nil {
		return nil, err
	}
	return Decode(line)
}

// WriteMessage encodes and writes one record.
func WriteMessage(w io.Writer, m Message) error {
	buf, err := Encode(m)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}
