package config

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

const (
	// defaults for when not provided in Config
	EventChannelLength uint16        = 1024
	DialTimeout        time.Duration = time.Second * 3
	ReconnectInterval  time.Duration = time.Second * 5
	HandshakeTimeout   time.Duration = time.Second * 5
	WriteTimeout       time.Duration = time.Second * 3

	// KeepAliveRecheck is how often a disabled keepalive re-reads its
	// interval setting.
	KeepAliveRecheck time.Duration = time.Second * 5
)

type Config struct {
	// Instance identifies this client in connection descriptors; a
	// random identity is assigned when empty.
	Instance           string
	EventChannelLength uint16

	DialTimeout       uint16 // seconds
	ReconnectInterval uint16 // seconds

	// KeepAliveInterval is the initial protocol keepalive period in
	// seconds; zero or negative disables keepalive until changed at
	// runtime via the client.
	KeepAliveInterval int16

	LogPrefix string
	LogDebug  bool
}

func (c *Config) Validate() error {
	if c == nil {
		err := fmt.Errorf("nil config")
		log.Printf("%s", err.Error())
		return err
	}

	if c.Instance == "" {
		c.Instance = uuid.NewString()
	}

	if c.LogPrefix == "" {
		c.LogPrefix = "oniz"
	}

	return nil
}
