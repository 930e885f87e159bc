package session

import (
	"fmt"
	"slices"

	"github.com/ironsheep/ocr-overlay/internal/ocr"
)

// Controls is the state of the language picker and the extract action.
type Controls struct {
	// ProfileLanguages is the "use profile languages" switch. When on, OCR
	// runs in the first installed language of the user's profile and the
	// list is cleared.
	ProfileLanguages bool `json:"profile_languages"`

	ToggleEnabled  bool `json:"toggle_enabled"`
	ListEnabled    bool `json:"list_enabled"`
	ExtractEnabled bool `json:"extract_enabled"`

	// Languages is the list offered to the user, nil while the switch is on.
	Languages []string `json:"languages"`

	// Selected is the chosen entry of Languages.
	Selected string `json:"selected,omitempty"`
}

func defaultControls() Controls {
	return Controls{
		ToggleEnabled:  true,
		ExtractEnabled: true,
	}
}

// UnknownLanguageError reports a selection that is not in the list.
type UnknownLanguageError struct {
	Language string
}

func (e *UnknownLanguageError) Error() string {
	return fmt.Sprintf("language %q is not in the language list", e.Language)
}

// refreshLanguages rebuilds the controls after the installed languages or the
// profile switch changed.
func (s *Session) refreshLanguages() {
	c := &s.controls

	if c.ProfileLanguages {
		c.Languages = nil
		c.Selected = ""
		c.ListEnabled = false
		s.notify("Run OCR in first OCR available language from the user profile language list.", KindStatus)
		return
	}

	if len(s.available) == 0 {
		c.Languages = nil
		c.Selected = ""
		c.ToggleEnabled = false
		c.ListEnabled = false
		c.ExtractEnabled = false
		s.notify("No available OCR languages.", KindError)
		return
	}

	c.Languages = slices.Clone(s.available)
	c.ListEnabled = true
	c.ToggleEnabled = true
	c.ExtractEnabled = true
	s.selectLanguage(c.Languages[0])
}

// selectLanguage mirrors a list selection: results are cleared and the
// banner names the choice.
func (s *Session) selectLanguage(lang string) {
	s.clearResults()
	s.controls.Selected = lang
	s.notify(fmt.Sprintf(
		"Selected OCR language is %s. %d OCR language(s) are available. Check combo box for full list.",
		ocr.DisplayName(lang), len(s.available)), KindStatus)
}

func (s *Session) onLanguageSelected(e LanguageSelected) error {
	if !s.controls.ListEnabled || !slices.Contains(s.controls.Languages, e.Language) {
		return &UnknownLanguageError{Language: e.Language}
	}
	s.selectLanguage(e.Language)
	return nil
}
