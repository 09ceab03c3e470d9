package terminus

import (
	"testing"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/stretchr/testify/suite"
)

type OptionsTestSuite struct {
	suite.Suite
}

func (s *OptionsTestSuite) TestZeroValueBackfillsDefaults() {
	opts := Options{}.MergeFrom(DefaultOptions())
	s.Equal(5*time.Minute, opts.CacheTTL)
	s.Equal(0, opts.Verbosity)
}

func (s *OptionsTestSuite) TestSetFieldsSurviveMerge() {
	opts := Options{CacheTTL: time.Second, Verbosity: 2}.
		MergeFrom(DefaultOptions())
	s.Equal(time.Second, opts.CacheTTL)
	s.Equal(2, opts.Verbosity)
}

func (s *OptionsTestSuite) TestFromKoanf() {
	k := koanf.New(".")
	err := k.Load(confmap.Provider(map[string]any{
		"pipeline.cacheTTL":  "30s",
		"pipeline.verbosity": 1,
	}, "."), nil)
	s.Require().Nil(err)

	opts, err := OptionsFromKoanf(k, "pipeline")
	s.Nil(err)
	s.Equal(30*time.Second, opts.CacheTTL)
	s.Equal(1, opts.Verbosity)
}

func (s *OptionsTestSuite) TestFromKoanfBackfillsMissing() {
	k := koanf.New(".")
	err := k.Load(confmap.Provider(map[string]any{
		"pipeline.verbosity": 3,
	}, "."), nil)
	s.Require().Nil(err)

	opts, err := OptionsFromKoanf(k, "pipeline")
	s.Nil(err)
	s.Equal(5*time.Minute, opts.CacheTTL)
	s.Equal(3, opts.Verbosity)
}

func TestOptions(t *testing.T) {
	suite.Run(t, new(OptionsTestSuite))
}
