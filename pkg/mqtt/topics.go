package mqtt

import (
	"fmt"
	"strings"
)

// Topic constants for the scene activation surface
const (
	// Scene activation commands (input)
	// Pattern: automation/command/scene/{scene_name}
	TopicSceneCommands = "automation/command/scene/+"

	// Device update commands (output)
	// Pattern: automation/command/{domain}/{entity_id}
	TopicCommandBase = "automation/command"

	// Activation context messages (output)
	// Pattern: automation/context/scene/{scene_name}
	TopicContextBase = "automation/context/scene"
)

// DeviceCommandTopic constructs the command topic for a device update
// Pattern: automation/command/{domain}/{entity_id}
func DeviceCommandTopic(domain, entityID string) string {
	return fmt.Sprintf("%s/%s/%s", TopicCommandBase, domain, entityID)
}

// SceneContextTopic constructs the context topic for an activation
// Pattern: automation/context/scene/{scene_name}
func SceneContextTopic(sceneName string) string {
	return fmt.Sprintf("%s/%s", TopicContextBase, sceneName)
}

// SceneNameFromTopic extracts the scene name from an activation command topic
// automation/command/scene/{scene_name} -> {scene_name}
func SceneNameFromTopic(topic string) (string, bool) {
	parts := strings.Split(topic, "/")
	if len(parts) != 4 || parts[0] != "automation" || parts[1] != "command" || parts[2] != "scene" {
		return "", false
	}
	return parts[3], true
}
