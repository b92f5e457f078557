package modlog

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	ActionBan        = "ban"
	ActionKick       = "kick"
	ActionMute       = "mute"
	ActionUnmute     = "unmute"
	ActionWarn       = "warn"
	ActionClearWarns = "clearwarns"
	ActionClear      = "clear"
	ActionSlowmode   = "slowmode"
	ActionLock       = "lock"
	ActionUnlock     = "unlock"
	ActionAutoMod    = "automod"
)

type Entry struct {
	GuildID     string
	ModeratorID string
	TargetID    string
	Action      string
	Reason      string
	CreatedAt   time.Time
}

// Logger records moderation actions. The bot installs a notifier that
// relays entries to the guild's configured log channel.
type Logger struct {
	logger *zap.Logger
	notify func(context.Context, Entry)
}

func New(logger *zap.Logger) *Logger {
	return &Logger{logger: logger}
}

func (l *Logger) SetNotifier(notify func(context.Context, Entry)) {
	l.notify = notify
}

func (l *Logger) Log(ctx context.Context, guildID, moderatorID, targetID, action, reason string) {
	entry := Entry{
		GuildID:     guildID,
		ModeratorID: moderatorID,
		TargetID:    targetID,
		Action:      action,
		Reason:      reason,
		CreatedAt:   time.Now(),
	}
	if l.notify != nil {
		l.notify(ctx, entry)
	}
	l.logger.Info("moderation action",
		zap.String("guild_id", guildID),
		zap.String("moderator_id", moderatorID),
		zap.String("target_id", targetID),
		zap.String("action", action),
		zap.String("reason", reason),
	)
}
