package redis

import "fmt"

// Key construction helpers for the scene and entity state schema

// SceneKey returns the key holding a scene snapshot (JSON string)
// Pattern: scene:{scene_id}
func SceneKey(sceneID string) string {
	return fmt.Sprintf("scene:%s", sceneID)
}

// EntityStateKey returns the key holding an entity's last reported state
// Pattern: state:entity:{entity_id}
func EntityStateKey(entityID string) string {
	return fmt.Sprintf("state:entity:%s", entityID)
}
