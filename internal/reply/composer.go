// Package reply turns match results and conversation state into the
// final response text. All user-visible wording lives here, in Egyptian
// Arabic, so every failure path resolves to one of a fixed set of
// deterministic reply branches.
package reply

import (
	"math"
	"strconv"
	"strings"

	"github.com/misrsweets/sweetbot-go/internal/catalog"
	"github.com/misrsweets/sweetbot-go/internal/match"
)

// Branch names the decision-table rule that produced a reply.
type Branch string

const (
	BranchPause      Branch = "pause"
	BranchResume     Branch = "resume"
	BranchPaused     Branch = "paused"
	BranchMenu       Branch = "menu"
	BranchPrice      Branch = "price"
	BranchSuggestion Branch = "suggestion"
	BranchFallback   Branch = "fallback"
)

// Labels for absent optional fields. Kept explicit so the response shape
// stays predictable instead of fields silently disappearing.
const (
	unitUnspecified  = "غير محدد"
	priceUnavailable = "غير متوفر حالياً"
)

// Composer builds reply text. It is stateless; conversation state is
// passed in per call.
type Composer struct {
	menuLinks []string
}

// NewComposer creates a Composer. menuLinks is the configured block of
// per-category catalog links shown at the top of menu listings; it may be
// empty.
func NewComposer(menuLinks []string) *Composer {
	return &Composer{menuLinks: menuLinks}
}

// PauseAck acknowledges a stop command.
func (c *Composer) PauseAck() string {
	return "⏸️ تمام — هاسكت. لو عايزني أرد تاني اكتب «ابدأ» أو «start»."
}

// ResumeAck acknowledges a resume command from a paused user.
func (c *Composer) ResumeAck() string {
	return "▶️ تمام — رجعت أشتغل. أقدر أساعد حضرتك إزاي؟"
}

// AlreadyActive answers a resume command from a user who was never paused.
func (c *Composer) AlreadyActive() string {
	return "🙂 أنا شغال بالفعل. أقدر أخدمك إزاي؟"
}

// PausedNotice is the short reply every message from a Paused user gets.
// The silent variant was rejected on purpose; see the repo design notes.
func (c *Composer) PausedNotice() string {
	return "⏸️ حضرتك موقّف الرد حالياً. لو عايز ترجّعه اكتب «ابدأ» أو «start»."
}

// EmptyPrompt answers an empty or whitespace-only message.
func (c *Composer) EmptyPrompt() string {
	return "🙂 ممكن تبعت اسم المنتج أو سؤالك عشان أقدر أساعدك؟"
}

// AttachmentAck answers non-text messages (stickers, images, audio).
func (c *Composer) AttachmentAck() string {
	return "📌 ابعت لنا اسم المنتج أو استفسارك كتابةً عشان نقدر نساعدك."
}

// MenuListing renders the full catalog: the configured link block, then
// every product grouped by category in feed order.
func (c *Composer) MenuListing(idx *catalog.Index) string {
	var b strings.Builder
	b.WriteString("📋 تفضل المنيو الكامل:\n")
	for _, link := range c.menuLinks {
		b.WriteByte('\n')
		b.WriteString(link)
	}

	var lastCategory string
	for _, p := range idx.Products() {
		if p.Category != lastCategory {
			lastCategory = p.Category
			b.WriteString("\n\n🏷️ ")
			b.WriteString(p.Category)
			b.WriteByte(':')
		}
		b.WriteString("\n• ")
		b.WriteString(p.Name)
		if p.HasPrice() {
			b.WriteString(" — ")
			b.WriteString(FormatPrice(*p.Price))
			b.WriteString(" جنيه")
			if p.Unit != nil {
				b.WriteString(" / ")
				b.WriteString(*p.Unit)
			}
		}
	}

	if idx.Len() == 0 {
		b.WriteString("\nالقايمة بتتجهز حالياً — جرب تاني بعد شوية. 🙏")
	}

	b.WriteString("\n\n📩 لو محتاج سعر صنف معيّن اكتب اسمه بالتقريب.")
	return b.String()
}

// ProductAnswer renders a confident match: name, price, unit and
// category. When the price is absent the menu listing is appended as a
// fallback aid.
func (c *Composer) ProductAnswer(p *catalog.Product, idx *catalog.Index) string {
	var b strings.Builder
	b.WriteString("🧾 ")
	b.WriteString(p.Name)
	b.WriteString("\n💰 السعر: ")
	if p.HasPrice() {
		b.WriteString(FormatPrice(*p.Price))
		b.WriteString(" جنيه")
	} else {
		b.WriteString(priceUnavailable)
	}
	b.WriteString("\n📦 الوحدة: ")
	b.WriteString(UnitLabel(p.Unit))
	b.WriteString("\n🏷️ التصنيف: ")
	b.WriteString(p.Category)

	if !p.HasPrice() {
		b.WriteString("\n\n")
		b.WriteString(c.MenuListing(idx))
	}
	return b.String()
}

// Suggestions renders a "did you mean" list for candidates in the
// suggestion band.
func (c *Composer) Suggestions(cands []match.Candidate) string {
	var b strings.Builder
	b.WriteString("🤔 مش متأكد قصدك على إيه بالظبط — يمكن تقصد:\n")
	for _, cand := range cands {
		b.WriteString("\n• ")
		b.WriteString(cand.Product.Name)
	}
	b.WriteString("\n\nاكتب الاسم بالظبط زي ما هو مكتوب وأنا أجيبلك السعر على طول. 👌")
	return b.String()
}

// Fallback renders the no-match reply: the full menu plus a follow-up
// notice. The wording softens when the menu was sent recently, but the
// listing itself is always included.
func (c *Composer) Fallback(idx *catalog.Index, menuRecentlySent bool) string {
	var b strings.Builder
	if menuRecentlySent {
		b.WriteString("معلش، مش لاقي الصنف ده بالتحديد 😕 اختار من المنيو اللي فات أو شوفه تاني هنا:\n\n")
	} else {
		b.WriteString("مش لاقي الصنف ده بالتحديد 😕 تفضل المنيو كامل عشان تختار:\n\n")
	}
	b.WriteString(c.MenuListing(idx))
	b.WriteString("\n\n📨 سجلنا سؤالك وهيتابع معاك حد من فريقنا قريب.")
	return b.String()
}

// MatchReply applies the match rows of the decision table: confident
// answer, suggestion band, or fallback.
func (c *Composer) MatchReply(cands []match.Candidate, opts match.Options, idx *catalog.Index, menuRecentlySent bool) (string, Branch) {
	if len(cands) == 0 {
		return c.Fallback(idx, menuRecentlySent), BranchFallback
	}
	if opts.Confident(cands[0]) {
		return c.ProductAnswer(cands[0].Product, idx), BranchPrice
	}
	return c.Suggestions(cands), BranchSuggestion
}

// FormatPrice renders a price with no trailing decimals for whole
// numbers and two-decimal precision otherwise.
func FormatPrice(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// UnitLabel renders an optional unit, with an explicit label when absent.
func UnitLabel(unit *string) string {
	if unit == nil || *unit == "" {
		return unitUnspecified
	}
	return *unit
}
