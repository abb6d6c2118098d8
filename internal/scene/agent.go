package scene

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/etokheim/scene-extrapolation/internal/extrapolate"
	"github.com/etokheim/scene-extrapolation/internal/solar"
	"github.com/etokheim/scene-extrapolation/pkg/config"
	"github.com/etokheim/scene-extrapolation/pkg/mqtt"
	"github.com/etokheim/scene-extrapolation/pkg/redis"
)

// Agent receives scene activation commands and turns each one into a batch
// of extrapolated device updates. It holds no state between activations;
// the timeline is recomputed fresh on every run.
type Agent struct {
	mqtt       mqtt.Client
	redis      redis.Client
	store      Store
	states     StateReader
	journal    *Journal
	dispatcher Dispatcher
	engine     *extrapolate.Engine
	cfg        *config.Config
	logger     *slog.Logger

	// now is replaceable for deterministic tests
	now func() time.Time
}

// NewAgent creates a new scene extrapolation agent. redisClient, states and
// journal may be nil when the corresponding backend is not configured.
func NewAgent(mqttClient mqtt.Client, redisClient redis.Client, store Store, states StateReader, journal *Journal, cfg *config.Config, logger *slog.Logger) *Agent {
	return &Agent{
		mqtt:       mqttClient,
		redis:      redisClient,
		store:      store,
		states:     states,
		journal:    journal,
		dispatcher: NewMQTTDispatcher(mqttClient, logger),
		engine:     extrapolate.NewEngine(logger),
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// Start connects the agent and begins processing activation commands
func (a *Agent) Start(ctx context.Context) error {
	a.logger.Info("Starting scene agent",
		"service_name", a.cfg.ServiceName,
		"scene_source", a.cfg.SceneSource,
		"latitude", a.cfg.Latitude,
		"longitude", a.cfg.Longitude,
		"timezone", a.cfg.Timezone)

	// Connect to MQTT broker
	if err := a.mqtt.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to MQTT: %w", err)
	}

	// Verify Redis connection when a Redis backend is in use
	if a.redis != nil {
		if err := a.redis.Ping(ctx); err != nil {
			return fmt.Errorf("failed to ping Redis: %w", err)
		}
	}

	// Activations run under the lifecycle context so shutdown reaches
	// in-flight lookups and dispatches
	handler := func(msg mqtt.Message) {
		a.handleActivationMessage(ctx, msg)
	}
	if err := a.mqtt.Subscribe(mqtt.TopicSceneCommands, 0, handler); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", mqtt.TopicSceneCommands, err)
	}
	a.logger.Info("Subscribed to scene activation commands", "topic", mqtt.TopicSceneCommands)

	a.logger.Info("Scene agent started and ready")

	// Block until context is cancelled
	<-ctx.Done()
	a.logger.Info("Scene agent stopping")

	return nil
}

// Stop gracefully stops the agent
func (a *Agent) Stop() error {
	a.logger.Info("Stopping scene agent")

	a.mqtt.Disconnect()

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("Error closing Redis connection", "error", err)
			return err
		}
	}

	a.logger.Info("Scene agent stopped")
	return nil
}

// handleActivationMessage handles one incoming activation command
func (a *Agent) handleActivationMessage(ctx context.Context, msg mqtt.Message) {
	topic := msg.Topic()

	sceneName, ok := mqtt.SceneNameFromTopic(topic)
	if !ok {
		a.logger.Warn("Invalid activation topic format", "topic", topic)
		return
	}

	var request ActivationRequest
	if len(msg.Payload()) > 0 {
		if err := json.Unmarshal(msg.Payload(), &request); err != nil {
			a.logger.Error("Failed to parse activation request",
				"scene", sceneName,
				"error", err)
			return
		}
	}

	if err := request.Validate(); err != nil {
		a.logger.Error("Rejecting activation request", "scene", sceneName, "error", err)
		return
	}

	if request.Transition == MaxTransitionSeconds {
		a.logger.Warn("Transition at upper bound, likely ignored by the host",
			"scene", sceneName,
			"transition", request.Transition)
	}

	if err := a.Activate(ctx, sceneName, request); err != nil {
		a.logger.Error("Scene activation failed",
			"scene", sceneName,
			"error", err)
	}
}

// Activate runs one full activation: timeline, event location, progress,
// extrapolation, dispatch. Configuration errors (an unresolvable scene
// mapping) abort before any dispatch; per-device dispatch failures are
// logged and do not fail the batch.
func (a *Agent) Activate(ctx context.Context, sceneName string, request ActivationRequest) error {
	activationID := uuid.NewString()
	logger := a.logger.With("activation_id", activationID, "scene", sceneName)

	latitude, longitude := a.cfg.Latitude, a.cfg.Longitude
	timezone := a.cfg.Timezone
	if request.Location != nil {
		latitude = request.Location.Latitude
		longitude = request.Location.Longitude
		if request.Location.Timezone != "" {
			timezone = request.Location.Timezone
		}
	}

	tz, err := time.LoadLocation(timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}

	targetTime, err := request.ResolveTime(a.now(), tz)
	if err != nil {
		return err
	}

	// Nightlights short-circuit the extrapolation entirely
	if applied, err := a.applyNightlights(ctx, logger, request); err != nil {
		return err
	} else if applied {
		return nil
	}

	duskMinimum, err := a.cfg.DuskMinimumSeconds()
	if err != nil {
		return err
	}

	events, err := solar.BuildTimeline(targetTime, latitude, longitude, tz, duskMinimum, logger)
	if err != nil {
		return fmt.Errorf("failed to build solar timeline: %w", err)
	}

	if err := a.bindScenes(ctx, events); err != nil {
		return err
	}

	nowSeconds := solar.SecondsSinceMidnight(targetTime)
	shift := solar.Shift(request.TransitionModifier, nowSeconds,
		eventByName(events, solar.EventDawn),
		eventByName(events, solar.EventNoon),
		eventByName(events, solar.EventDusk))

	effective := nowSeconds + request.Transition + shift

	current := solar.Locate(events, effective, 0)
	next := solar.Locate(events, effective, 1)

	progress, err := solar.Progress(current, next, effective)
	if err != nil {
		return err
	}

	logger.Info("Extrapolating between solar events",
		"current_event", current.Name,
		"next_event", next.Name,
		"progress", fmt.Sprintf("%.1f", progress),
		"shift_seconds", shift,
		"effective_seconds", effective)

	updates, err := a.engine.Diff(current.Scene, next.Scene, progress, request.Transition, request.BrightnessModifier)
	if err != nil {
		return err
	}

	failures := a.dispatchUpdates(ctx, logger, updates)

	logger.Info("Scene activation complete",
		"update_count", len(updates),
		"failure_count", failures)

	a.publishActivationContext(logger, sceneName, activationID, current.Name, next.Name, progress, len(updates), failures)

	if a.journal != nil {
		record := ActivationRecord{
			ActivationID:       activationID,
			SceneName:          sceneName,
			TargetTime:         targetTime,
			CurrentEvent:       current.Name,
			NextEvent:          next.Name,
			Progress:           progress,
			TransitionSeconds:  request.Transition,
			BrightnessModifier: request.BrightnessModifier,
			TransitionModifier: request.TransitionModifier,
			ShiftSeconds:       shift,
			UpdateCount:        len(updates),
			FailureCount:       failures,
		}
		if err := a.journal.Record(ctx, record); err != nil {
			logger.Warn("Failed to record activation", "error", err)
		}
	}

	return nil
}

// applyNightlights applies the nightlights scene verbatim when the
// configured boolean entity reads "on". Returns whether it handled the
// activation.
func (a *Agent) applyNightlights(ctx context.Context, logger *slog.Logger, request ActivationRequest) (bool, error) {
	if a.cfg.NightlightsBooleanID == "" || a.states == nil {
		return false, nil
	}

	state, err := a.states.State(ctx, a.cfg.NightlightsBooleanID)
	if err != nil {
		logger.Warn("Failed to read nightlights boolean, extrapolating normally",
			"entity_id", a.cfg.NightlightsBooleanID,
			"error", err)
		return false, nil
	}
	if state != extrapolate.StateOn {
		return false, nil
	}

	snapshot, err := a.store.Lookup(ctx, a.cfg.NightlightsSceneID)
	if err != nil {
		return false, fmt.Errorf("failed to resolve nightlights scene %q: %w", a.cfg.NightlightsSceneID, err)
	}

	logger.Info("Nightlights active, applying nightlights scene",
		"scene_id", snapshot.ID,
		"entity_count", len(snapshot.Entities))

	// Diffing the scene against itself at 100% yields its recorded values
	updates, err := a.engine.Diff(snapshot, snapshot, 100, request.Transition, 0)
	if err != nil {
		return false, err
	}

	failures := a.dispatchUpdates(ctx, logger, updates)
	logger.Info("Nightlights scene applied",
		"update_count", len(updates),
		"failure_count", failures)

	return true, nil
}

// bindScenes resolves the configured scene mapping and attaches each
// snapshot to its solar event. Any failed lookup aborts the activation; a
// partially configured mapping must not reach dispatch.
func (a *Agent) bindScenes(ctx context.Context, events []solar.Event) error {
	mapping := map[string]string{
		solar.EventDawn:    a.cfg.SceneDawnID,
		solar.EventSunrise: a.cfg.SceneSunriseID,
		solar.EventNoon:    a.cfg.SceneNoonID,
		solar.EventSunset:  a.cfg.SceneSunsetID,
		solar.EventDusk:    a.cfg.SceneDuskID,
	}

	for i := range events {
		sceneID := mapping[events[i].Name]
		if sceneID == "" {
			return fmt.Errorf("missing scene mapping for solar event %q", events[i].Name)
		}

		snapshot, err := a.store.Lookup(ctx, sceneID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("scene mapping for %q references unknown scene %q: %w", events[i].Name, sceneID, err)
			}
			return fmt.Errorf("failed to resolve scene %q for event %q: %w", sceneID, events[i].Name, err)
		}

		events[i].Scene = snapshot
	}

	return nil
}

// dispatchUpdates fans the updates out concurrently. A failed dispatch is
// logged and counted; it never cancels or blocks its siblings.
func (a *Agent) dispatchUpdates(ctx context.Context, logger *slog.Logger, updates []extrapolate.DeviceUpdate) int {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures int
	)

	for _, update := range updates {
		wg.Add(1)
		go func(update extrapolate.DeviceUpdate) {
			defer wg.Done()

			if err := a.dispatcher.Dispatch(ctx, update); err != nil {
				logger.Warn("Device update failed",
					"entity_id", update.EntityID,
					"action", update.Action,
					"error", err)
				mu.Lock()
				failures++
				mu.Unlock()
			}
		}(update)
	}

	wg.Wait()
	return failures
}

// publishActivationContext publishes a context message describing the
// finished activation
func (a *Agent) publishActivationContext(logger *slog.Logger, sceneName, activationID, currentEvent, nextEvent string, progress float64, updateCount, failureCount int) {
	contextMsg := map[string]interface{}{
		"source":        "scene-agent",
		"activation_id": activationID,
		"scene":         sceneName,
		"current_event": currentEvent,
		"next_event":    nextEvent,
		"progress":      progress,
		"update_count":  updateCount,
		"failure_count": failureCount,
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	}

	payload, err := json.Marshal(contextMsg)
	if err != nil {
		logger.Error("Failed to marshal activation context", "error", err)
		return
	}

	topic := mqtt.SceneContextTopic(sceneName)
	if err := a.mqtt.Publish(topic, 0, false, payload); err != nil {
		logger.Warn("Failed to publish activation context", "topic", topic, "error", err)
	}
}

// eventByName returns the named event from the timeline
func eventByName(events []solar.Event, name string) solar.Event {
	for _, event := range events {
		if event.Name == name {
			return event
		}
	}
	return solar.Event{}
}
