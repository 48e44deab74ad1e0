// Package config loads the YAML pipeline description used by mwrun.
package config

// Config is a pipeline definition: the stages to run in order over every
// document and how many documents to process at once.
type Config struct {
	Concurrency int         `yaml:"concurrency" validate:"gte=0,lte=256"`
	Log         LogConfig   `yaml:"log"`
	Stages      []StageSpec `yaml:"stages" validate:"required,min=1,dive"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Human bool   `yaml:"human"`
}

// StageSpec is one pipeline element. Exactly one of Use, Series or Parallel
// is set. Settle makes a parallel group wait for every member.
type StageSpec struct {
	Use      string   `yaml:"use" validate:"omitempty,stage_name"`
	Series   []string `yaml:"series" validate:"omitempty,min=1,dive,stage_name"`
	Parallel []string `yaml:"parallel" validate:"omitempty,min=1,dive,stage_name"`
	Settle   bool     `yaml:"settle"`
}

// Names lists the stage names the entry refers to.
func (s StageSpec) Names() []string {
	switch {
	case s.Use != "":
		return []string{s.Use}
	case len(s.Series) > 0:
		return s.Series
	default:
		return s.Parallel
	}
}

// Label names the element in logs and tagged errors.
func (s StageSpec) Label() string {
	switch {
	case s.Use != "":
		return s.Use
	case len(s.Series) > 0:
		return "series"
	default:
		return "parallel"
	}
}
