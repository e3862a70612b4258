package snippets

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// EditSnippetRequest updates a lineage by minting a new version on top of
// fromVersion. Omitted fields carry over from the edited version.
type EditSnippetRequest struct {
	FromVersion int64   `json:"fromVersion"`
	Kind        *string `json:"kind"`
	Content     *string `json:"content"`
}

func (r EditSnippetRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FromVersion, validation.Required),
		validation.Field(&r.Kind, validation.NilOrNotEmpty),
		validation.Field(&r.Content, validation.NilOrNotEmpty),
	)
}

// SnippetResponse is the wire shape for a single snippet version.
type SnippetResponse struct {
	LineageID string    `json:"lineageId"`
	Version   int64     `json:"version"`
	Kind      string    `json:"kind"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func toResponse(s Snippet) SnippetResponse {
	return SnippetResponse{
		LineageID: s.LineageID,
		Version:   s.Version,
		Kind:      s.Kind,
		Content:   s.Content,
		CreatedAt: s.CreatedAt,
	}
}

func toResponses(list []Snippet) []SnippetResponse {
	out := make([]SnippetResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toResponse(s))
	}
	return out
}
