package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestTranslateFallsBackToEnglish(t *testing.T) {
	b := &Bot{}

	if got := b.t("de", "error.permission"); got != translations["en"]["error.permission"] {
		t.Fatalf("unknown language should fall back to English, got %q", got)
	}
	if got := b.t("fr", "error.permission"); got != translations["fr"]["error.permission"] {
		t.Fatalf("expected French string, got %q", got)
	}
	if got := b.t("en", "no.such.key"); got != "no.such.key" {
		t.Fatalf("missing key should return the key, got %q", got)
	}
}

func TestTranslateFormatsArguments(t *testing.T) {
	b := &Bot{}
	got := b.t("en", "level.up", "<@1>", 3)
	want := "GG <@1>, you reached level **3**!"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderMemberMessage(t *testing.T) {
	user := &discordgo.User{ID: "42", Username: "alice"}
	guild := &discordgo.Guild{Name: "Testland", MemberCount: 7}

	got := renderMemberMessage("Welcome {user} ({username}) to {server}, member #{count}!", user, guild)
	want := "Welcome <@42> (alice) to Testland, member #7!"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	// Without guild state the server placeholders stay untouched.
	got = renderMemberMessage("Bye {username} from {server}", user, nil)
	if got != "Bye alice from {server}" {
		t.Fatalf("got %q", got)
	}
}

func TestProgressBar(t *testing.T) {
	if got := progressBar(0, 100); got != "▱▱▱▱▱▱▱▱▱▱" {
		t.Fatalf("empty bar got %q", got)
	}
	if got := progressBar(50, 100); got != "▰▰▰▰▰▱▱▱▱▱" {
		t.Fatalf("half bar got %q", got)
	}
	if got := progressBar(100, 100); got != "▰▰▰▰▰▰▰▰▰▰" {
		t.Fatalf("full bar got %q", got)
	}
	if got := progressBar(200, 100); got != "▰▰▰▰▰▰▰▰▰▰" {
		t.Fatalf("overflow should clamp, got %q", got)
	}
}

func TestHasPermission(t *testing.T) {
	interaction := func(permissions int64) *discordgo.InteractionCreate {
		return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
			Member: &discordgo.Member{Permissions: permissions},
		}}
	}

	if !hasPermission(interaction(discordgo.PermissionManageServer), discordgo.PermissionManageServer) {
		t.Error("manage-server member should pass")
	}
	if !hasPermission(interaction(discordgo.PermissionAdministrator), discordgo.PermissionManageServer) {
		t.Error("administrator should pass any check")
	}
	if hasPermission(interaction(discordgo.PermissionSendMessages), discordgo.PermissionManageServer) {
		t.Error("send-messages member should not pass")
	}
	if hasPermission(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{}}, discordgo.PermissionManageServer) {
		t.Error("DM interaction without member should not pass")
	}
}

func TestOptionMap(t *testing.T) {
	options := []*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "member"},
		{Name: "reason"},
	}
	m := optionMap(options)
	if len(m) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(m))
	}
	if m["member"] != options[0] || m["reason"] != options[1] {
		t.Fatal("options mapped to wrong entries")
	}
}
