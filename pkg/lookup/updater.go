package lookup

import (
	"context"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// EmptyLabel is the placeholder choice every reset leaves behind.
const EmptyLabel = "---------"

// ChoiceList is the dependent selector.
type ChoiceList interface {
	Reset(emptyLabel string)
	Append(value, label string)
}

// Updater repopulates a dependent ChoiceList. It holds no state between
// calls.
type Updater struct {
	fetcher Fetcher
	logger  logrus.FieldLogger
}

// UpdaterOption configures an Updater.
type UpdaterOption func(*Updater)

// WithLogger sets the logger used for swallowed lookup errors.
func WithLogger(logger logrus.FieldLogger) UpdaterOption {
	return func(u *Updater) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// NewUpdater builds an Updater over fetcher.
func NewUpdater(fetcher Fetcher, opts ...UpdaterOption) *Updater {
	u := &Updater{fetcher: fetcher}
	for _, opt := range opts {
		if opt != nil {
			opt(u)
		}
	}
	if u.logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		u.logger = logger
	}
	return u
}

// Update resets target to the empty choice and, when sourceValue is set,
// appends the fetched choices. Fetch errors are logged and leave target at
// the empty choice. It reports how many choices were appended.
func (u *Updater) Update(ctx context.Context, sourceValue, parentID string, target ChoiceList) int {
	if target == nil {
		return 0
	}
	target.Reset(EmptyLabel)

	sourceValue = strings.TrimSpace(sourceValue)
	if sourceValue == "" || u == nil || u.fetcher == nil {
		return 0
	}

	choices, err := u.fetcher.Fetch(ctx, Query{ParentID: strings.TrimSpace(parentID), SourceID: sourceValue})
	if err != nil {
		u.logger.WithError(err).WithFields(logrus.Fields{
			"parent": parentID,
			"source": sourceValue,
		}).Error("lookup: fetch failed")
		return 0
	}
	for _, choice := range choices {
		target.Append(choice.ID, choice.Text)
	}
	return len(choices)
}

// Choices is an in-memory ChoiceList.
type Choices struct {
	Items []Choice
}

func (c *Choices) Reset(emptyLabel string) {
	c.Items = []Choice{{ID: "", Text: emptyLabel}}
}

func (c *Choices) Append(value, label string) {
	c.Items = append(c.Items, Choice{ID: value, Text: label})
}
