package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"floorplanner/internal/editor/command"
	"floorplanner/internal/editor/models"
	"floorplanner/internal/editor/session"
	"floorplanner/internal/editor/transform"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int
	DBPath       string
	EditorPath   string
	CORSOrigins  []string
	Editor       EditorDefaults
}

// EditorDefaults seed new projects and editor sessions. Zero values in the
// YAML file keep the built-in defaults.
type EditorDefaults struct {
	Settings      models.Settings `yaml:"settings"`
	HistorySize   int             `yaml:"historySize"`
	MergeWindowMS int             `yaml:"mergeWindowMs"`
	RotationSnap  bool            `yaml:"rotationSnap"`
	RotationStep  float64         `yaml:"rotationStep"`
}

func DefaultEditorDefaults() EditorDefaults {
	return EditorDefaults{
		Settings:      models.DefaultSettings(),
		HistorySize:   command.DefaultMaxSize,
		MergeWindowMS: int(command.DefaultMergeWindow / time.Millisecond),
		RotationStep:  transform.DefaultRotationStep,
	}
}

// SessionOptions maps the defaults onto editor options.
func (d EditorDefaults) SessionOptions() session.Options {
	return session.Options{
		History: command.Options{
			MaxSize:     d.HistorySize,
			MergeWindow: time.Duration(d.MergeWindowMS) * time.Millisecond,
		},
		RotationSnap: d.RotationSnap,
		RotationStep: d.RotationStep,
	}
}

// Load reads the environment and, when PLANNER_CONFIG is set, the editor
// defaults file.
func Load() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "3000"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),
		DBPath:       getEnv("PLANNER_DB_PATH", "data/db/planner.db"),
		EditorPath:   getEnv("PLANNER_CONFIG", ""),
		CORSOrigins:  getEnvAsList("CORS_ORIGINS"),
		Editor:       DefaultEditorDefaults(),
	}

	if cfg.EditorPath != "" {
		editor, err := LoadEditorDefaults(cfg.EditorPath)
		if err != nil {
			return nil, err
		}
		cfg.Editor = editor
	}
	return cfg, nil
}

// LoadEditorDefaults reads a YAML file on top of the built-in defaults.
// A missing file yields the defaults.
func LoadEditorDefaults(path string) (EditorDefaults, error) {
	d := DefaultEditorDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return d, nil
		}
		return d, fmt.Errorf("read editor config: %w", err)
	}

	var file EditorDefaults
	if err := yaml.Unmarshal(data, &file); err != nil {
		return d, fmt.Errorf("parse editor config %s: %w", path, err)
	}

	d.merge(file)
	if err := d.Settings.Validate(); err != nil {
		return d, fmt.Errorf("editor config %s: %w", path, err)
	}
	return d, nil
}

func (d *EditorDefaults) merge(f EditorDefaults) {
	s := f.Settings
	if s.Scale > 0 {
		d.Settings.Scale = s.Scale
	}
	if s.SnapGrid > 0 {
		d.Settings.SnapGrid = s.SnapGrid
	}
	if s.DisplayMode != "" {
		d.Settings.DisplayMode = s.DisplayMode
	}
	if s.ApartmentWidth > 0 {
		d.Settings.ApartmentWidth = s.ApartmentWidth
	}
	if s.ApartmentHeight > 0 {
		d.Settings.ApartmentHeight = s.ApartmentHeight
	}
	if s.MaxCanvasWidth > 0 {
		d.Settings.MaxCanvasWidth = s.MaxCanvasWidth
	}
	if s.MaxCanvasHeight > 0 {
		d.Settings.MaxCanvasHeight = s.MaxCanvasHeight
	}

	if f.HistorySize > 0 {
		d.HistorySize = f.HistorySize
	}
	if f.MergeWindowMS > 0 {
		d.MergeWindowMS = f.MergeWindowMS
	}
	if f.RotationStep > 0 {
		d.RotationStep = f.RotationStep
	}
	d.RotationSnap = d.RotationSnap || f.RotationSnap
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// getEnvAsList splits a comma separated value. Unset means nil.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
