package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/ecc1/somfy"
	"github.com/ecc1/somfy/cc111x"
	"github.com/ecc1/somfy/state"
)

var (
	broker    = flag.String("broker", "tcp://localhost:1883", "MQTT broker `URL`")
	prefix    = flag.String("prefix", "somfy", "topic `prefix`")
	user      = flag.String("user", "", "MQTT user name")
	password  = flag.String("password", "", "MQTT password")
	statePath = flag.String("state", "somfy.state", "state `file`")
	repeats   = flag.Uint("repeats", somfy.DefaultRepeats, "number of frame `repeats`")
	frequency = flag.Uint("freq", somfy.Frequency, "carrier `frequency` in Hz")
	verbose   = flag.Bool("v", false, "verbose mode")
)

const qos = 1

func main() {
	flag.Parse()
	if *repeats > 0xFF {
		log.Fatalf("%d repeats is too many", *repeats)
	}
	s, err := state.Load(*statePath)
	if err != nil {
		log.Fatal(err)
	}
	r := cc111x.Open()
	if r.Error() != nil {
		log.Fatal(r.Error())
	}
	defer r.Close()
	r.Init(uint32(*frequency))
	if r.Error() != nil {
		log.Fatal(r.Error())
	}
	remote := somfy.NewRemote(r, uint8(*repeats))
	remote.SetVerbose(*verbose)

	var b *bridge
	client := newClient(func(c mqtt.Client) { b.subscribe(c) })
	b = newBridge(*prefix, s, remote, *statePath, func(topic string, payload []byte) {
		client.Publish(topic, qos, false, payload)
	})
	go b.run()
	if err := connect(client); err != nil {
		log.Fatal(err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig
	client.Unsubscribe(b.setFilter()).WaitTimeout(time.Second)
	client.Disconnect(250)
	b.stop()
	<-b.done
}

func newClient(onConnect mqtt.OnConnectHandler) mqtt.Client {
	hostname, _ := os.Hostname()
	mqtt.ERROR = log.New(os.Stderr, "", 0)
	if *verbose {
		mqtt.WARN = log.New(os.Stderr, "", 0)
	}
	opts := mqtt.NewClientOptions().
		AddBroker(*broker).
		SetClientID("somfy-" + hostname).
		SetAutoReconnect(true).
		SetKeepAlive(30 * time.Second).
		SetMaxReconnectInterval(2 * time.Minute).
		SetOnConnectHandler(onConnect).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Printf("MQTT connection lost: %v", err)
		})
	opts.Username = *user
	opts.Password = *password
	return mqtt.NewClient(opts)
}

func connect(client mqtt.Client) error {
	tk := client.Connect()
	if !tk.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("timeout connecting to %s", *broker)
	}
	if tk.Error() != nil {
		return tk.Error()
	}
	log.Printf("MQTT connected to %s", *broker)
	return nil
}

// subscribe runs on every (re)connection: the session is clean,
// so the broker has forgotten any earlier subscription.
func (b *bridge) subscribe(c mqtt.Client) {
	filter := b.setFilter()
	tk := c.Subscribe(filter, qos, func(_ mqtt.Client, msg mqtt.Message) {
		b.forward(msg.Topic(), msg.Payload())
	})
	if tk.Wait() && tk.Error() != nil {
		log.Printf("subscribing to %s: %v", filter, tk.Error())
		return
	}
	log.Printf("listening on %s", filter)
}
