package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/onizworks/go-oniz/arbiter"
	"github.com/onizworks/go-oniz/client"
	"github.com/onizworks/go-oniz/config"
	"github.com/onizworks/go-oniz/message"
)

type DemoHandler struct {
	LogPrefix string
}

func (dh *DemoHandler) Connected(*client.Client) {
	log.Printf("%s: Connected", dh.LogPrefix)
}

func (dh *DemoHandler) Disconnected(_ *client.Client, reason string) {
	log.Printf("%s: Disconnected: %s", dh.LogPrefix, reason)
}

func (dh *DemoHandler) RemoteRegistered(_ *client.Client, tile message.Tile, what string) {
	log.Printf("%s: RemoteRegistered: %s at %s", dh.LogPrefix, what, tile)
}

func (dh *DemoHandler) RemoteUnregistered(_ *client.Client, tile message.Tile, what string) {
	log.Printf("%s: RemoteUnregistered: %s at %s", dh.LogPrefix, what, tile)
}

func demo() {
	if len(os.Args) <= 2 {
		log.Printf("demo: must specify address and port")
		return
	}

	address := os.Args[1]
	port, err := strconv.ParseUint(os.Args[2], 10, 16)
	if err != nil {
		log.Printf("demo: invalid port %s", os.Args[2])
		return
	}

	c := &config.Config{
		Instance:           "demo",
		EventChannelLength: 256,

		DialTimeout:       3,
		ReconnectInterval: 5,
		KeepAliveInterval: 17,

		LogPrefix: "demo",
		LogDebug:  true,
	}

	a := arbiter.NewArbiter(c)

	cl, err := client.NewClient(
		&client.Options{
			Config:  c,
			Arbiter: a,
			Handler: &DemoHandler{
				LogPrefix: "demo",
			},
		},
	)
	if err != nil {
		panic(err)
	}

	cl.Connect(address, uint16(port))
	cl.RegisterLocalDevice(3, 4, "lamp")
	cl.SendMessage(message.NewRecvJoules(3, 4, 25))

	go func() {
		for {
			<-time.After(time.Second)
			resp := cl.GetMessageFor(message.KindGotJoules, 3, 4)
			if resp == nil {
				continue
			}
			log.Printf("demo: got response %+v", resp)
			return
		}
	}()

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigch // wait
	log.Printf("demo: received signal %s, exiting", sig.String())

	cl.Shutdown()
	a.Shutdown()
}

func main() {
	// enable microsecond and file line logging
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)

	demo()
}
