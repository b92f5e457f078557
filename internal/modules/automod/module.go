package automod

import (
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"

	"ultrabot/internal/storage"
	"ultrabot/internal/utils"

	"go.uber.org/zap"
)

type Rule string

const (
	RuleSpam       Rule = "spam"
	RuleLinks      Rule = "links"
	RuleCaps       Rule = "caps"
	RuleMentions   Rule = "mentions"
	RuleBannedWord Rule = "banned_word"
)

const (
	spamMessages = 5
	spamWindow   = 5 * time.Second
)

var linkRegex = regexp.MustCompile(`https?://[^\s]+`)

// Message carries the fields of an incoming message the filter inspects.
// CanBypassLinks reflects the manage-messages permission.
type Message struct {
	GuildID        string
	AuthorID       string
	Content        string
	Mentions       int
	CanBypassLinks bool
}

type Verdict struct {
	Rule Rule
}

// Filter evaluates guild auto-moderation rules against incoming messages.
// Checks run in a fixed order and the first match wins.
type Filter struct {
	mu      sync.Mutex
	windows map[string]*utils.SlidingWindow
	logger  *zap.Logger
}

func New(logger *zap.Logger) *Filter {
	return &Filter{
		windows: make(map[string]*utils.SlidingWindow),
		logger:  logger,
	}
}

func (f *Filter) Check(cfg storage.AutoModConfig, msg Message, now time.Time) (Verdict, bool) {
	if !cfg.Enabled {
		return Verdict{}, false
	}

	if cfg.AntiSpam {
		window := f.getWindow(msg.GuildID + ":" + msg.AuthorID)
		if window.Add(now) >= spamMessages {
			window.Reset()
			f.flag(msg, RuleSpam)
			return Verdict{Rule: RuleSpam}, true
		}
	}

	if cfg.AntiLinks && !msg.CanBypassLinks && linkRegex.MatchString(msg.Content) {
		f.flag(msg, RuleLinks)
		return Verdict{Rule: RuleLinks}, true
	}

	if cfg.AntiCaps && isShouting(msg.Content, cfg.CapsThreshold) {
		f.flag(msg, RuleCaps)
		return Verdict{Rule: RuleCaps}, true
	}

	if cfg.MaxMentions > 0 && msg.Mentions > cfg.MaxMentions {
		f.flag(msg, RuleMentions)
		return Verdict{Rule: RuleMentions}, true
	}

	if containsBannedWord(msg.Content, cfg.BannedWords) {
		f.flag(msg, RuleBannedWord)
		return Verdict{Rule: RuleBannedWord}, true
	}

	return Verdict{}, false
}

func (f *Filter) getWindow(key string) *utils.SlidingWindow {
	f.mu.Lock()
	defer f.mu.Unlock()
	window := f.windows[key]
	if window == nil {
		window = utils.NewSlidingWindow(spamWindow)
		f.windows[key] = window
	}
	return window
}

func (f *Filter) flag(msg Message, rule Rule) {
	f.logger.Info("automod flag",
		zap.String("guild_id", msg.GuildID),
		zap.String("user_id", msg.AuthorID),
		zap.String("rule", string(rule)),
	)
}

// isShouting reports whether a message longer than 10 runes is mostly
// uppercase, measured against the configured percentage threshold.
func isShouting(content string, threshold int) bool {
	runes := []rune(content)
	if len(runes) <= 10 {
		return false
	}
	upper := 0
	for _, r := range runes {
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return upper*100/len(runes) > threshold
}

func containsBannedWord(content string, banned []string) bool {
	if len(banned) == 0 {
		return false
	}
	normalized := normalizeText(content)
	for _, word := range banned {
		if word == "" {
			continue
		}
		if strings.Contains(normalized, normalizeText(word)) {
			return true
		}
	}
	return false
}

// normalizeText lowercases and folds common accented letters so word lists
// catch trivially disguised variants.
func normalizeText(input string) string {
	replacer := strings.NewReplacer(
		"à", "a", "á", "a", "â", "a", "ä", "a",
		"è", "e", "é", "e", "ê", "e", "ë", "e",
		"ì", "i", "í", "i", "î", "i", "ï", "i",
		"ò", "o", "ó", "o", "ô", "o", "ö", "o",
		"ù", "u", "ú", "u", "û", "u", "ü", "u",
		"ç", "c",
	)
	return replacer.Replace(strings.ToLower(input))
}
