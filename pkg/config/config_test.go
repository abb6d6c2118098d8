package config

import "testing"

func validConfig() *Config {
	cfg := NewConfig()
	cfg.SceneDawnID = "scene.dawn"
	cfg.SceneSunriseID = "scene.sunrise"
	cfg.SceneNoonID = "scene.noon"
	cfg.SceneSunsetID = "scene.sunset"
	cfg.SceneDuskID = "scene.dusk"
	return cfg
}

func TestValidate_FullMapping(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}
}

func TestValidate_PartialSceneMapping(t *testing.T) {
	cfg := validConfig()
	cfg.SceneNoonID = ""

	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for missing noon scene mapping")
	}
}

func TestValidate_InvalidTimezone(t *testing.T) {
	cfg := validConfig()
	cfg.Timezone = "Mars/Olympus_Mons"

	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for unknown timezone")
	}
}

func TestValidate_InvalidCoordinates(t *testing.T) {
	cfg := validConfig()
	cfg.Latitude = 95

	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for latitude out of range")
	}
}

func TestValidate_SceneSource(t *testing.T) {
	cfg := validConfig()
	cfg.SceneSource = "carrier-pigeon"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for unknown scene source")
	}

	cfg = validConfig()
	cfg.SceneSource = "file"
	cfg.SceneFile = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for file source without a path")
	}
}

func TestValidate_NightlightsNeedsScene(t *testing.T) {
	cfg := validConfig()
	cfg.NightlightsBooleanID = "input_boolean.nightlights"

	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for nightlights boolean without a scene")
	}

	cfg.NightlightsSceneID = "scene.nightlights"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid nightlights config, got %v", err)
	}
}

func TestDuskMinimumSeconds(t *testing.T) {
	cfg := validConfig()

	got, err := cfg.DuskMinimumSeconds()
	if err != nil {
		t.Fatalf("DuskMinimumSeconds failed: %v", err)
	}
	if got != 22*3600 {
		t.Errorf("Expected %d for default 22:00:00, got %d", 22*3600, got)
	}

	cfg.DuskMinimumTime = "17:30:15"
	got, err = cfg.DuskMinimumSeconds()
	if err != nil {
		t.Fatalf("DuskMinimumSeconds failed: %v", err)
	}
	if got != 17*3600+30*60+15 {
		t.Errorf("Expected %d, got %d", 17*3600+30*60+15, got)
	}

	cfg.DuskMinimumTime = "25:00:00"
	if _, err := cfg.DuskMinimumSeconds(); err == nil {
		t.Error("Expected error for hour out of range")
	}

	cfg.DuskMinimumTime = "22:00"
	if _, err := cfg.DuskMinimumSeconds(); err == nil {
		t.Error("Expected error for missing seconds field")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SCENEX_LATITUDE", "51.5074")
	t.Setenv("SCENEX_TIMEZONE", "Europe/London")
	t.Setenv("SCENEX_SCENE_DAWN", "scene.morning")
	t.Setenv("SCENEX_JOURNAL_ENABLED", "true")

	cfg := NewConfig()
	cfg.LoadFromEnv()

	if cfg.Latitude != 51.5074 {
		t.Errorf("Expected latitude 51.5074, got %f", cfg.Latitude)
	}
	if cfg.Timezone != "Europe/London" {
		t.Errorf("Expected timezone Europe/London, got %s", cfg.Timezone)
	}
	if cfg.SceneDawnID != "scene.morning" {
		t.Errorf("Expected dawn scene 'scene.morning', got %s", cfg.SceneDawnID)
	}
	if !cfg.JournalEnabled {
		t.Error("Expected journal enabled")
	}
}
