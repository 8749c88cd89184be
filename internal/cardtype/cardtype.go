// Package cardtype is the registry of per-type card behavior: seed content,
// validation, save formatting, emptiness and notification messages. Adding a
// card type means registering one Config here; call sites stay branch-free.
package cardtype

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/pinwall/pinwall/internal/content"
	"github.com/pinwall/pinwall/internal/errs"
	"github.com/pinwall/pinwall/internal/model"
)

// Messages are the user-facing notifications for a card type's lifecycle.
type Messages struct {
	CreateSuccess string
	UpdateSuccess string
	DeleteSuccess string
	CreateError   string
	UpdateError   string
	DeleteError   string
}

// Config describes the behavior strategy for one card type. All functions
// operate on the editor's working representation (raw edited content) except
// where noted.
type Config struct {
	Type model.CardType

	// InitialContent seeds the content blob for a freshly created card.
	InitialContent func() string

	// Validate is the type-specific acceptance rule; a nil error accepts.
	Validate func(raw string) error

	// FormatForSave converts the working representation into the persisted blob.
	FormatForSave func(raw string) string

	// IsEmpty is the structural emptiness test driving delete-on-save/cancel.
	IsEmpty func(raw string) bool

	Messages Messages
}

// NormalizeURL defaults a missing scheme to https.
func NormalizeURL(raw string) string {
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return "https://" + raw
	}
	return raw
}

func validURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Host != ""
}

var textConfig = Config{
	Type:           model.CardTypeText,
	InitialContent: func() string { return content.MarshalText("") },
	// Text cards accept anything; emptiness is a deletion trigger upstream,
	// not a validation failure.
	Validate:      func(string) error { return nil },
	FormatForSave: content.MarshalText,
	IsEmpty:       content.IsEmpty,
	Messages: Messages{
		CreateSuccess: "Note created",
		UpdateSuccess: "Note updated",
		DeleteSuccess: "Note deleted",
		CreateError:   "Failed to create note",
		UpdateError:   "Failed to update note",
		DeleteError:   "Failed to delete note",
	},
}

var linkConfig = Config{
	Type:           model.CardTypeLink,
	InitialContent: func() string { return content.MarshalLink("") },
	Validate: func(raw string) error {
		text := content.ExtractText(raw)
		if text == "" {
			return errors.New("please enter a URL")
		}
		if !validURL(NormalizeURL(text)) {
			return errors.New("please enter a valid URL")
		}
		return nil
	},
	FormatForSave: func(raw string) string {
		return content.MarshalLink(NormalizeURL(content.ExtractText(raw)))
	},
	IsEmpty: content.IsEmpty,
	Messages: Messages{
		CreateSuccess: "Link created",
		UpdateSuccess: "Link updated",
		DeleteSuccess: "Link deleted",
		CreateError:   "Failed to create link",
		UpdateError:   "Failed to update link",
		DeleteError:   "Failed to delete link",
	},
}

// placeholder returns a permissive pass-through config for types that are
// registered but not yet implemented.
func placeholder(t model.CardType) Config {
	name := strings.ToLower(string(t))
	return Config{
		Type:           t,
		InitialContent: func() string { return "{}" },
		Validate:       func(string) error { return nil },
		FormatForSave:  func(raw string) string { return raw },
		IsEmpty:        content.IsEmpty,
		Messages: Messages{
			CreateSuccess: fmt.Sprintf("%s created", name),
			UpdateSuccess: fmt.Sprintf("%s updated", name),
			DeleteSuccess: fmt.Sprintf("%s deleted", name),
			CreateError:   fmt.Sprintf("failed to create %s", name),
			UpdateError:   fmt.Sprintf("failed to update %s", name),
			DeleteError:   fmt.Sprintf("failed to delete %s", name),
		},
	}
}

var registry = map[model.CardType]Config{
	model.CardTypeText:     textConfig,
	model.CardTypeLink:     linkConfig,
	model.CardTypeTodo:     placeholder(model.CardTypeTodo),
	model.CardTypeImage:    placeholder(model.CardTypeImage),
	model.CardTypeColumn:   placeholder(model.CardTypeColumn),
	model.CardTypeSubboard: placeholder(model.CardTypeSubboard),
}

// Get returns the configuration for a card type.
func Get(t model.CardType) (Config, error) {
	cfg, ok := registry[t]
	if !ok {
		return Config{}, fmt.Errorf("%w: %s", errs.ErrUnsupportedType, t)
	}
	return cfg, nil
}

// Known reports whether t has a registered configuration.
func Known(t model.CardType) bool {
	_, ok := registry[t]
	return ok
}
