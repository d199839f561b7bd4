// Package bot contains the dialogue controller: the per-message
// orchestration that checks control commands and pause state, runs the
// matcher against the live catalog and hands the outcome to the reply
// composer. The controller itself holds no conversation logic beyond
// ordering; the decision rules live in the composer and matcher.
package bot

import (
	"context"
	"strings"
	"time"

	"github.com/misrsweets/sweetbot-go/internal/arabic"
	"github.com/misrsweets/sweetbot-go/internal/catalog"
	"github.com/misrsweets/sweetbot-go/internal/config"
	"github.com/misrsweets/sweetbot-go/internal/convstate"
	"github.com/misrsweets/sweetbot-go/internal/genai"
	"github.com/misrsweets/sweetbot-go/internal/logger"
	"github.com/misrsweets/sweetbot-go/internal/match"
	"github.com/misrsweets/sweetbot-go/internal/metrics"
	"github.com/misrsweets/sweetbot-go/internal/reply"
)

// Processor handles one inbound message end to end and returns the
// reply text. Safe for concurrent use.
type Processor struct {
	catalog  *catalog.Store
	state    *convstate.Store
	composer *reply.Composer
	polisher *genai.FallbackPolisher
	metrics  *metrics.Metrics
	logger   *logger.Logger

	matchOpts    match.Options
	menuCooldown time.Duration

	stopWords    map[string]bool
	resumeWords  map[string]bool
	confirmWords map[string]bool
	menuWords    []string
}

// NewProcessor creates the controller. The keyword sets from cfg are
// normalized once here so runtime comparisons are plain lookups.
func NewProcessor(
	cfg config.BotConfig,
	store *catalog.Store,
	state *convstate.Store,
	composer *reply.Composer,
	polisher *genai.FallbackPolisher,
	m *metrics.Metrics,
	log *logger.Logger,
) *Processor {
	return &Processor{
		catalog:  store,
		state:    state,
		composer: composer,
		polisher: polisher,
		metrics:  m,
		logger:   log.WithModule("bot"),
		matchOpts: match.Options{
			ConfidentThreshold: cfg.ConfidentThreshold,
			DiscardFloor:       cfg.DiscardFloor,
			TopK:               cfg.TopK,
		},
		menuCooldown: cfg.MenuCooldown,
		stopWords:    normalizeSet(cfg.StopKeywords),
		resumeWords:  normalizeSet(cfg.ResumeKeywords),
		confirmWords: normalizeSet(cfg.ConfirmKeywords),
		menuWords:    normalizeList(cfg.MenuKeywords),
	}
}

// HandleMessage runs the decision table for one message. It always
// returns reply text; every failure path inside resolves to one of the
// deterministic branches.
func (p *Processor) HandleMessage(ctx context.Context, userID, text string) string {
	log := p.logger.WithUser(userID)
	q := arabic.Normalize(text)

	if q == "" {
		p.metrics.RecordReply(string(reply.BranchFallback))
		return p.composer.EmptyPrompt()
	}

	// Control commands work regardless of pause state
	if p.stopWords[q] {
		if _, err := p.state.SetPaused(ctx, userID, true); err != nil {
			log.WithError(err).Error("Failed to pause user")
		}
		p.metrics.RecordReply(string(reply.BranchPause))
		return p.composer.PauseAck()
	}
	if p.resumeWords[q] {
		wasPaused, err := p.state.SetPaused(ctx, userID, false)
		if err != nil {
			log.WithError(err).Error("Failed to resume user")
		}
		p.metrics.RecordReply(string(reply.BranchResume))
		if wasPaused {
			return p.composer.ResumeAck()
		}
		return p.composer.AlreadyActive()
	}

	// While paused nothing else fires, only a short notice
	if p.state.IsPaused(ctx, userID) {
		p.metrics.RecordReply(string(reply.BranchPaused))
		return p.composer.PausedNotice()
	}

	idx := p.catalog.Current()

	if p.isMenuRequest(q) {
		p.state.MarkMenuSent(ctx, userID)
		p.metrics.RecordReply(string(reply.BranchMenu))
		return p.composer.MenuListing(idx)
	}

	cands, strategy := match.Match(q, idx, p.matchOpts)
	p.metrics.RecordMatch(string(strategy))

	menuRecent := p.state.WasMenuRecentlySent(ctx, userID, p.menuCooldown)
	out, branch := p.composer.MatchReply(cands, p.matchOpts, idx, menuRecent)
	p.metrics.RecordReply(string(branch))

	switch branch {
	case reply.BranchFallback:
		p.state.LogUnmatched(ctx, userID, text)
	case reply.BranchPrice:
		// Polishing is prose-only: it rewords the deterministic answer
		// and degrades to it on any provider trouble.
		out = p.polisher.Polish(ctx, out)
	}

	return out
}

// isMenuRequest reports whether the normalized query asks for the menu,
// either by keyword or by a bare confirmation ("نعم") to an earlier offer.
func (p *Processor) isMenuRequest(q string) bool {
	if p.confirmWords[q] {
		return true
	}
	for _, kw := range p.menuWords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

func normalizeSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		if n := arabic.Normalize(w); n != "" {
			set[n] = true
		}
	}
	return set
}

func normalizeList(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if n := arabic.Normalize(w); n != "" {
			out = append(out, n)
		}
	}
	return out
}
