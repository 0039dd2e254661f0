package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"dream-journal-be/internal/pkg/apperror"
)

const (
	DreamTextMinLength = 20
	DreamTextMaxLength = 4000
)

type DreamSource string

const (
	DreamSourceText  DreamSource = "text"
	DreamSourceVoice DreamSource = "voice"
)

type Dream struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	Text           string
	Source         DreamSource
	Language       string
	DreamDate      time.Time
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
	Interpretation *DreamInterpretation
	Tags           []DreamTag
}

type DreamEmotion struct {
	Name      string `json:"name"`
	Intensity string `json:"intensity"`
	Meaning   string `json:"meaning"`
}

type DreamInterpretation struct {
	Id               uuid.UUID
	DreamId          uuid.UUID
	MainSymbol       string
	MainSymbolEmoji  string
	Interpretation   string
	Emotions         []DreamEmotion
	Advice           string
	Model            string
	PromptVersion    string
	IsFallback       bool
	FromCache        bool
	ProcessingTimeMs int64
	CreatedAt        time.Time
}

type DreamTag struct {
	Id      uuid.UUID
	DreamId uuid.UUID
	Name    string
}

// NormalizeDreamText trims surrounding whitespace before validation and storage.
func NormalizeDreamText(text string) string {
	return strings.TrimSpace(text)
}

// ValidateDreamText checks the trimmed dream text against the allowed length bounds.
func ValidateDreamText(text string) error {
	trimmed := NormalizeDreamText(text)
	if len([]rune(trimmed)) < DreamTextMinLength {
		return apperror.Validation("text", "dream description must be at least 20 characters")
	}
	if len([]rune(trimmed)) > DreamTextMaxLength {
		return apperror.Validation("text", "dream description must not exceed 4000 characters")
	}
	return nil
}
