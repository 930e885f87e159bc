package session

import "github.com/ironsheep/ocr-overlay/internal/overlay"

// View is a serializable snapshot of the whole page.
type View struct {
	Image    Image         `json:"image"`
	Surface  Surface       `json:"surface"`
	Words    overlay.Frame `json:"words"`
	Faces    overlay.Frame `json:"faces"`
	Text     string        `json:"text"`
	Language string        `json:"language,omitempty"`
	Status   StatusView    `json:"status"`
	Controls Controls      `json:"controls"`
}

// StatusView is the banner as a renderer sees it.
type StatusView struct {
	Status
	Visible bool   `json:"visible"`
	Color   string `json:"color"`
}

// View snapshots the session.
func (s *Session) View() View {
	return View{
		Image:    s.image,
		Surface:  s.surface,
		Words:    s.words.Frame(),
		Faces:    s.faces.Frame(),
		Text:     s.text,
		Language: s.language,
		Status: StatusView{
			Status:  s.status,
			Visible: s.status.Visible(),
			Color:   s.status.Kind.Color(),
		},
		Controls: s.Controls(),
	}
}
