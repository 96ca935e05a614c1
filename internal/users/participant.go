package users

import (
	"strings"

	"github.com/blesswrld/codesync/backend/go-services/internal/models"
)

// Participant is the display projection of a user referenced by an
// interview or comment. References to deleted users are tolerated and
// rendered with placeholder text.
type Participant struct {
	Identity string `json:"identity"`
	Name     string `json:"name"`
	Image    string `json:"image,omitempty"`
	Initials string `json:"initials"`
}

// CandidateInfo resolves a candidate reference for display.
func CandidateInfo(byIdentity map[string]*models.User, candidateID string) Participant {
	if candidateID == "" {
		return Participant{Name: "N/A", Initials: "N"}
	}
	u, ok := byIdentity[candidateID]
	if !ok {
		short := candidateID
		if len(short) > 6 {
			short = short[:6]
		}
		return Participant{
			Identity: candidateID,
			Name:     "ID: " + short + "...",
			Initials: strings.ToUpper(candidateID[:1]),
		}
	}
	p := Participant{Identity: candidateID, Name: u.Name, Image: u.Image, Initials: initials(u.Name)}
	if p.Name == "" {
		p.Name = "Unknown Candidate"
	}
	if p.Initials == "" {
		p.Initials = "UC"
	}
	return p
}

// ParticipantInfo resolves an interviewer or comment author for display.
func ParticipantInfo(byIdentity map[string]*models.User, interviewerID string) Participant {
	p := Participant{Identity: interviewerID, Name: "Unknown Interviewer", Initials: "UI"}
	u, ok := byIdentity[interviewerID]
	if !ok || u.Name == "" {
		return p
	}
	p.Name = u.Name
	p.Image = u.Image
	if in := initials(u.Name); in != "" {
		p.Initials = in
	}
	return p
}

// Directory returns an identity index over all users for participant lookups.
func Directory(all []*models.User) map[string]*models.User {
	m := make(map[string]*models.User, len(all))
	for _, u := range all {
		m[u.Identity] = u
	}
	return m
}

func initials(name string) string {
	var b strings.Builder
	for _, part := range strings.Fields(name) {
		r := []rune(part)
		b.WriteRune(r[0])
	}
	return strings.ToUpper(b.String())
}
