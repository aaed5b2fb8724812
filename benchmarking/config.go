package benchmarking

import (
	"fmt"
	"os"

	"github.com/nathanhack/ldpcbp/linearblock/messagepassing/bp"
	"gopkg.in/yaml.v3"
)

//Config describes an AWGN sweep: every SNR (dB) in SNRs is run for Trials trials.
type Config struct {
	SNRs    []float64 `yaml:"snrs"`
	Trials  int       `yaml:"trials"`
	Threads int       `yaml:"threads"`
	MaxIter int       `yaml:"maxIter"`
	Seed    uint64    `yaml:"seed"`
}

//DefaultConfig is a single trial at 0dB.
func DefaultConfig() Config {
	return Config{
		SNRs:    []float64{0},
		Trials:  1,
		Threads: 0,
		MaxIter: bp.DefaultMaxIter,
		Seed:    1,
	}
}

//ParseConfig reads a YAML sweep, fields left out keep the DefaultConfig values.
func ParseConfig(bs []byte) (Config, error) {
	config := DefaultConfig()
	err := yaml.Unmarshal(bs, &config)
	if err != nil {
		return Config{}, err
	}
	return config, config.Validate()
}

func LoadConfig(filepath string) (Config, error) {
	bs, err := os.ReadFile(filepath)
	if err != nil {
		return Config{}, fmt.Errorf("error while reading file %v: %v", filepath, err)
	}
	return ParseConfig(bs)
}

func (c Config) Validate() error {
	if len(c.SNRs) == 0 {
		return fmt.Errorf("at least one snr is required")
	}
	if c.Trials < 1 {
		return fmt.Errorf("trials must be at least 1 but found %v", c.Trials)
	}
	if c.MaxIter < 1 {
		return fmt.Errorf("maxIter must be at least 1 but found %v", c.MaxIter)
	}
	return nil
}
