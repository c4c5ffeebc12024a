// device-main boots the companion firmware: build config, tick source,
// bus, config service, then the drivers and services on top.
package main

import (
	"context"
	"time"

	"displaycode-go/bus"
	"displaycode-go/conf"
	"displaycode-go/services/assistant"
	"displaycode-go/services/bridge"
	cfgsvc "displaycode-go/services/config"
	"displaycode-go/services/heartbeat"
	"displaycode-go/services/input"
	"displaycode-go/services/motion"
	"displaycode-go/services/speech"
	"displaycode-go/services/ui"
	"displaycode-go/services/wifi"
)

const deviceID = "companion"

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)

	// Development builds keep Info chatter on; ship builds flip this
	// back to LogOff and only errors reach the console.
	bc := conf.Default()
	bc.Log = conf.LogInfo
	if err := conf.Resolve(bc); err != nil {
		println("Error: build config rejected:", err.Error())
		return
	}
	if conf.Logs(conf.LogInfo) {
		println("Info: boot")
	}

	p, err := openPlatform()
	if err != nil {
		println("Error: platform bring-up failed:", err.Error())
		return
	}
	if p.Dial != nil {
		bridge.UARTDial = p.Dial
	}

	ctx := context.WithValue(context.Background(), cfgsvc.CtxDeviceKey, deviceID)
	b := bus.NewBus(16)

	// Config first: its retained sections are what every other service
	// waits on after subscribing.
	cfgsvc.NewService().Start(ctx, b.NewConnection("config"))

	if err := (&heartbeat.Service{}).Start(ctx, b.NewConnection("heartbeat")); err != nil {
		println("Error: heartbeat start:", err.Error())
	}
	if err := motion.NewService(p.IMU).Start(ctx, b.NewConnection("motion")); err != nil {
		println("Error: motion start:", err.Error())
	}
	if err := input.NewService(p.ReadButton).Start(ctx, b.NewConnection("input")); err != nil {
		println("Error: input start:", err.Error())
	}
	if err := speech.NewService(p.Recognizer, p.Ring).Start(ctx, b.NewConnection("speech")); err != nil {
		println("Error: speech start:", err.Error())
	}
	if err := wifi.NewService(p.Wifi).Start(ctx, b.NewConnection("wifi")); err != nil {
		println("Error: wifi start:", err.Error())
	}
	if err := assistant.NewService().Start(ctx, b.NewConnection("assistant")); err != nil {
		println("Error: assistant start:", err.Error())
	}
	go bridge.Start(ctx, b.NewConnection("bridge"))

	uiSvc := ui.NewService(p.Display)
	uiSvc.Backlight = p.Backlight
	if err := uiSvc.Start(ctx, b.NewConnection("ui")); err != nil {
		println("Error: ui start:", err.Error())
	}

	if conf.Logs(conf.LogInfo) {
		println("Info: services up")
	}
	select {}
}
