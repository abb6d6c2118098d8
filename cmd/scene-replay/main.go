package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/etokheim/scene-extrapolation/internal/scene"
	"github.com/etokheim/scene-extrapolation/pkg/config"
	"github.com/etokheim/scene-extrapolation/pkg/mqtt"
)

// scene-replay publishes one activation command and prints the device
// updates the agent emits in response. Combined with target-datetime it
// replays any moment of the solar day against a running agent.
func main() {
	sceneName := pflag.String("scene", "extrapolation", "Scene name to activate")
	transition := pflag.Int("transition", 0, "Transition seconds to request")
	brightnessModifier := pflag.Int("brightness-modifier", 0, "Brightness modifier percentage (-100 to 100)")
	transitionModifier := pflag.Int("transition-modifier", 0, "Transition modifier percentage (-100 to 100)")
	targetDateTime := pflag.String("target-datetime", "", "Evaluation time override (RFC3339 or local YYYY-MM-DDTHH:MM:SS)")
	watch := pflag.Duration("watch", 5*time.Second, "How long to listen for emitted device updates")

	cfg := config.NewConfig()
	cfg.ServiceName = "scene-replay"
	cfg.LoadFromEnv()
	pflag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	request := scene.ActivationRequest{
		Transition:         *transition,
		BrightnessModifier: *brightnessModifier,
		TransitionModifier: *transitionModifier,
		TargetDateTime:     *targetDateTime,
	}
	if err := request.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid request: %v\n", err)
		os.Exit(1)
	}

	payload, err := json.Marshal(request)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode request: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := mqtt.NewClient(cfg, logger)
	if err := client.Connect(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to MQTT broker at %s: %v\n", cfg.MQTTAddress(), err)
		os.Exit(1)
	}
	defer client.Disconnect()

	// Listen before publishing so no response is missed
	received := make(chan string, 64)
	observe := func(msg mqtt.Message) {
		received <- fmt.Sprintf("%s %s", msg.Topic(), msg.Payload())
	}
	if err := client.Subscribe(mqtt.TopicCommandBase+"/+/+", 0, observe); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to subscribe to device commands: %v\n", err)
		os.Exit(1)
	}
	if err := client.Subscribe(mqtt.SceneContextTopic(*sceneName), 0, observe); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to subscribe to activation context: %v\n", err)
		os.Exit(1)
	}

	topic := fmt.Sprintf("automation/command/scene/%s", *sceneName)
	if err := client.Publish(topic, 0, false, payload); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to publish activation: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Published activation to %s: %s\n", topic, payload)

	deadline := time.After(*watch)
	count := 0
	for {
		select {
		case line := <-received:
			count++
			fmt.Println(line)
		case <-deadline:
			fmt.Printf("Received %d messages in %s\n", count, *watch)
			return
		}
	}
}
