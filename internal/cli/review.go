// Package cli implements the interactive study session over a card store.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/wyliebrown1990/ai-timeline/internal/flashcard"
	"github.com/wyliebrown1990/ai-timeline/internal/store"
)

var errEnd = errors.New("end")

// ReviewSession runs an interactive review over the cards currently due,
// grading each with SM-2 quality 0-5 and booking the study time when the
// session ends.
type ReviewSession struct {
	store        store.Store
	packID       string
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	italic       *color.Color
	now          func() time.Time

	queue      []flashcard.Card
	reviewed   int
	lastCardID string
}

// SessionOption configures a ReviewSession.
type SessionOption func(*ReviewSession)

// WithInput overrides stdin, for tests.
func WithInput(r io.Reader) SessionOption {
	return func(s *ReviewSession) { s.stdinReader = bufio.NewReader(r) }
}

// WithOutput overrides stdout, for tests.
func WithOutput(w io.Writer) SessionOption {
	return func(s *ReviewSession) { s.stdoutWriter = w }
}

// WithSessionClock overrides the session's clock, for tests.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *ReviewSession) { s.now = now }
}

// NewReviewSession builds a session over the cards due in packID (empty means
// every pack).
func NewReviewSession(cardStore store.Store, packID string, opts ...SessionOption) *ReviewSession {
	s := &ReviewSession{
		store:        cardStore,
		packID:       packID,
		stdinReader:  bufio.NewReader(os.Stdin),
		stdoutWriter: os.Stdout,
		bold:         color.New(color.Bold),
		italic:       color.New(color.Italic),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run drives the session until the queue empties, the user quits, or an
// interrupt arrives. Elapsed time is booked to the study ledger afterwards.
func (s *ReviewSession) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(
		ctx,
		os.Interrupt,
	)
	defer cancel()

	s.queue = s.store.DueCards(s.packID)
	startedAt := s.now()

	errCh := make(chan error)
	go func() {
		defer close(errCh)

	LOOP:
		for {
			select {
			case <-ctx.Done():
				break LOOP
			default:
			}

			if err := s.session(ctx); err != nil {
				if errors.Is(err, errEnd) {
					break
				}
				errCh <- err
				break
			}
		}
	}()
	select {
	case <-ctx.Done():
		fmt.Fprintln(s.stdoutWriter, "Received interrupt signal, exiting...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error: %w", err)
		}
	}

	s.bookStudyTime(ctx, startedAt)
	return nil
}

func (s *ReviewSession) session(ctx context.Context) error {
	if len(s.queue) == 0 {
		fmt.Fprintln(s.stdoutWriter, "No more cards due!")
		s.printSummary()
		return errEnd
	}
	card := s.queue[0]

	_, _ = s.bold.Fprintf(s.stdoutWriter, "[%s] %s\n", card.SourceType, card.SourceID)
	_, _ = s.italic.Fprintf(s.stdoutWriter, "interval %dd, ease %.2f, %d left\n", card.IntervalDays, card.EaseFactor, len(s.queue))
	fmt.Fprint(s.stdoutWriter, "Grade 0-5 (u: undo, q: quit): ")

	line, err := s.stdinReader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return errEnd
		}
		return fmt.Errorf("error reading input: %w", err)
	}

	switch input := strings.TrimSpace(line); input {
	case "q", "quit":
		s.printSummary()
		return errEnd
	case "u", "undo":
		return s.undo(ctx)
	default:
		quality, err := strconv.Atoi(input)
		if err != nil || quality < 0 || quality > 5 {
			fmt.Fprintln(s.stdoutWriter, "Please enter a grade from 0 to 5.")
			return nil
		}
		return s.grade(ctx, card, quality)
	}
}

func (s *ReviewSession) grade(ctx context.Context, card flashcard.Card, quality int) error {
	if err := s.store.RecordReview(ctx, card.ID, quality); err != nil {
		return fmt.Errorf("store.RecordReview() > %w", err)
	}
	s.reviewed++
	s.lastCardID = card.ID

	s.queue = s.queue[1:]
	if quality < 3 {
		// Failed cards stay due and come back at the end of the session.
		if updated, ok := s.store.CardByID(card.ID); ok {
			s.queue = append(s.queue, *updated)
		}
		fmt.Fprintln(s.stdoutWriter, "Again later this session.")
		return nil
	}

	if updated, ok := s.store.CardByID(card.ID); ok && updated.NextReviewAt != nil {
		fmt.Fprintf(s.stdoutWriter, "Next review in %d day(s).\n", updated.IntervalDays)
	}
	return nil
}

func (s *ReviewSession) undo(ctx context.Context) error {
	if s.lastCardID == "" || !s.store.UndoLastReview(ctx, s.lastCardID) {
		fmt.Fprintln(s.stdoutWriter, "Nothing to undo.")
		return nil
	}

	// Put the undone card back at the front and drop it from wherever the
	// failed-card requeue may have left it.
	undone, ok := s.store.CardByID(s.lastCardID)
	if ok {
		queue := []flashcard.Card{*undone}
		for _, card := range s.queue {
			if card.ID != undone.ID {
				queue = append(queue, card)
			}
		}
		s.queue = queue
	}
	s.reviewed--
	s.lastCardID = ""
	fmt.Fprintln(s.stdoutWriter, "Last review undone.")
	return nil
}

func (s *ReviewSession) bookStudyTime(ctx context.Context, startedAt time.Time) {
	if s.reviewed == 0 {
		return
	}
	minutes := int(s.now().Sub(startedAt).Round(time.Minute) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	if err := s.store.AddStudyTime(ctx, minutes); err != nil {
		fmt.Fprintf(s.stdoutWriter, "Could not record study time: %v\n", err)
	}
}

func (s *ReviewSession) printSummary() {
	stats := s.store.Stats()
	fmt.Fprintf(s.stdoutWriter, "Reviewed %d card(s). Streak: %d day(s).\n", s.reviewed, stats.CurrentStreak)
}
