package entity_test

import (
	"errors"
	"testing"

	"oxyget/internal/entity"
	"oxyget/internal/errs"
)

func TestParseQualityTier(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"Best", "High", "Medium", "Low", "Worst"} {
		got, err := entity.ParseQualityTier(name)
		if err != nil || string(got) != name {
			t.Errorf("ParseQualityTier(%q) = %q, %v; want %q, nil", name, got, err, name)
		}
	}

	for _, name := range []string{"", "best", "Ultra", "1080p"} {
		if _, err := entity.ParseQualityTier(name); !errors.Is(err, errs.ErrInvalidQuality) {
			t.Errorf("ParseQualityTier(%q) error = %v; want %v", name, err, errs.ErrInvalidQuality)
		}
	}
}

func TestSettingsClone(t *testing.T) {
	t.Parallel()

	orig := entity.Settings{SubLangs: []string{"en", "de"}}

	clone := orig.Clone()
	clone.SubLangs[0] = "fr"

	if orig.SubLangs[0] != "en" {
		t.Errorf("original mutated through clone: %v", orig.SubLangs)
	}
}
