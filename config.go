package hidl

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config is a typed, dotted-path settings map shared by the
// Coordinator and the target drivers.
type Config map[string]*cfgVal

// NewConfig creates a configuration object primed with the defaults
// every driver and the serialization synthesizer expects to find.
func NewConfig() *Config {
	m := make(Config)
	m.SetBool("codegen.elide_single_output", true)
	m.SetBool("codegen.emit_passthrough", true)
	m.SetInt("codegen.passthrough_queue_capacity", 3000)
	m.SetString("codegen.error_mode", "goto-label")
	m.SetBool("managed.reject_incompatible", true)
	return &m
}

type cfgValType int

const (
	cfgValType_Undefined cfgValType = iota
	cfgValType_Bool
	cfgValType_Int
	cfgValType_String
)

func (vt cfgValType) String() string {
	return map[cfgValType]string{
		cfgValType_Undefined: "undefined",
		cfgValType_Bool:      "bool",
		cfgValType_Int:       "int",
		cfgValType_String:    "string",
	}[vt]
}

type cfgVal struct {
	typ      cfgValType
	asBool   bool
	asInt    int
	asString string
}

// assignType guards against a programming error assigning two
// different types to the same settings path.
func (v *cfgVal) assignType(vt cfgValType) {
	if v.typ != vt && v.typ != cfgValType_Undefined {
		panic(fmt.Sprintf("can't assign `%s` to type `%s`", vt, v.typ))
	}
	v.typ = vt
}

func (v *cfgVal) checkType(vt cfgValType) {
	if v.typ != vt {
		panic(fmt.Sprintf("can't retrieve `%s` from `%s` variable", vt, v.typ))
	}
}

func (c *Config) SetBool(path string, v bool) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValType_Bool)
	(*c)[path].asBool = v
}

func (c *Config) SetInt(path string, v int) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValType_Int)
	(*c)[path].asInt = v
}

func (c *Config) SetString(path string, v string) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValType_String)
	(*c)[path].asString = v
}

func (c *Config) GetBool(path string) bool {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_Bool)
		return val.asBool
	}
	panic(fmt.Sprintf("bool setting `%s` does not exist", path))
}

func (c *Config) GetInt(path string) int {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_Int)
		return val.asInt
	}
	panic(fmt.Sprintf("int setting `%s` does not exist", path))
}

func (c *Config) GetString(path string) string {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_String)
		return val.asString
	}
	panic(fmt.Sprintf("string setting `%s` does not exist", path))
}

// ProjectConfig is the shape of an optional YAML project file (-c)
// supplying repeated package-prefix-to-directory mappings, the same
// concern repeated -r flags cover, for build setups that would
// rather check one file into source control than repeat flags.
type ProjectConfig struct {
	Roots []struct {
		Prefix string `yaml:"prefix"`
		Path   string `yaml:"path"`
	} `yaml:"roots"`
}

// LoadProjectConfig parses a project YAML file's root mappings, to be
// merged with any "-r" flags the command line also supplied.
func LoadProjectConfig(data []byte) (*ProjectConfig, error) {
	var pc ProjectConfig
	if err := yaml.Unmarshal(data, &pc); err != nil {
		return nil, fmt.Errorf("hidl: parsing project config: %w", err)
	}
	return &pc, nil
}

// RootMappings converts the parsed YAML roots list into Coordinator
// RootMappings.
func (pc *ProjectConfig) RootMappings() []RootMapping {
	out := make([]RootMapping, 0, len(pc.Roots))
	for _, r := range pc.Roots {
		out = append(out, RootMapping{Prefix: r.Prefix, Path: r.Path})
	}
	return out
}
