package validation

import (
	"fmt"
	"regexp"
	"time"

	"github.com/news-content-service/internal/models"
)

var (
	slugRegex    = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	channelRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

const (
	maxSlugLength  = 200
	maxTitleLength = 300
	maxTagCount    = 20
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateCreate validates an admin create request
func ValidateCreate(input *models.ArticleInput) []ValidationError {
	var errors []ValidationError

	if input.ChannelID == "" {
		errors = append(errors, ValidationError{Field: "channel_id", Message: "channel_id is required"})
	} else if !channelRegex.MatchString(input.ChannelID) {
		errors = append(errors, ValidationError{Field: "channel_id", Message: "invalid channel id format", Value: input.ChannelID})
	}

	errors = append(errors, validateSlug(input.Slug)...)

	if input.Title == "" {
		errors = append(errors, ValidationError{Field: "title", Message: "title is required"})
	} else if len(input.Title) > maxTitleLength {
		errors = append(errors, ValidationError{Field: "title", Message: fmt.Sprintf("title exceeds %d characters", maxTitleLength)})
	}

	if input.Content == "" {
		errors = append(errors, ValidationError{Field: "content", Message: "content is required"})
	}

	if input.Status != "" && !models.ValidStatuses[input.Status] {
		errors = append(errors, ValidationError{Field: "status", Message: "status must be draft or published", Value: input.Status})
	}

	if len(input.Tags) > maxTagCount {
		errors = append(errors, ValidationError{Field: "tags", Message: fmt.Sprintf("at most %d tags allowed", maxTagCount)})
	}

	errors = append(errors, validateSchedule(input.ScheduledFor)...)

	return errors
}

// ValidateUpdate validates an admin partial-update request. Only supplied
// fields are checked; nil means unchanged.
func ValidateUpdate(upd *models.ArticleUpdate) []ValidationError {
	var errors []ValidationError

	if upd.Title != nil {
		if *upd.Title == "" {
			errors = append(errors, ValidationError{Field: "title", Message: "title cannot be empty"})
		} else if len(*upd.Title) > maxTitleLength {
			errors = append(errors, ValidationError{Field: "title", Message: fmt.Sprintf("title exceeds %d characters", maxTitleLength)})
		}
	}

	if upd.Content != nil && *upd.Content == "" {
		errors = append(errors, ValidationError{Field: "content", Message: "content cannot be empty"})
	}

	if upd.Status != nil && !models.ValidStatuses[*upd.Status] {
		errors = append(errors, ValidationError{Field: "status", Message: "status must be draft or published", Value: *upd.Status})
	}

	if upd.Tags != nil && len(upd.Tags) > maxTagCount {
		errors = append(errors, ValidationError{Field: "tags", Message: fmt.Sprintf("at most %d tags allowed", maxTagCount)})
	}

	errors = append(errors, validateSchedule(upd.ScheduledFor)...)

	return errors
}

func validateSlug(slug string) []ValidationError {
	if slug == "" {
		return []ValidationError{{Field: "slug", Message: "slug is required"}}
	}
	if len(slug) > maxSlugLength {
		return []ValidationError{{Field: "slug", Message: fmt.Sprintf("slug exceeds %d characters", maxSlugLength)}}
	}
	if !slugRegex.MatchString(slug) {
		return []ValidationError{{Field: "slug", Message: "slug must be lowercase alphanumeric with hyphens", Value: slug}}
	}
	return nil
}

func validateSchedule(scheduledFor *time.Time) []ValidationError {
	if scheduledFor != nil && scheduledFor.Before(time.Now()) {
		return []ValidationError{{Field: "scheduled_for", Message: "scheduled_for must be in the future"}}
	}
	return nil
}
