package discord

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/MapBot_Go/internal/domain"
	"github.com/osse101/MapBot_Go/internal/logger"
	"github.com/osse101/MapBot_Go/internal/metrics"
)

// CommandHandler handles a slash command. A returned error has already been
// shown to the user and is only logged and counted.
type CommandHandler func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps) error

// ComponentHandler handles a button press. args are the custom id fields after the prefix.
type ComponentHandler func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps, args []string) error

// CommandFactory creates a Discord command and its handler
type CommandFactory func() (*discordgo.ApplicationCommand, CommandHandler)

// CommandRegistry holds the registered commands
type CommandRegistry struct {
	Commands   map[string]*discordgo.ApplicationCommand
	Handlers   map[string]CommandHandler
	Components map[string]ComponentHandler
}

// NewCommandRegistry creates a new registry
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		Commands:   make(map[string]*discordgo.ApplicationCommand),
		Handlers:   make(map[string]CommandHandler),
		Components: make(map[string]ComponentHandler),
	}
}

// CommandFactories lists every slash command the bot serves
func CommandFactories() []CommandFactory {
	return []CommandFactory{
		PingCommand,
		SyncCommand,
		MapCommand,
		MapTopCommand,
		CompletionsCommand,
		GrantSegmentCommand,
		RevokeSegmentCommand,
		PointsCommand,
		PointsTopCommand,
		PointsAddCommand,
		TransactionsCommand,
	}
}

// DefaultRegistry registers every command and button handler
func DefaultRegistry() *CommandRegistry {
	r := NewCommandRegistry()
	for _, factory := range CommandFactories() {
		r.Register(factory())
	}
	r.RegisterComponent(customIDBuyOne, handleBuyButton(false))
	r.RegisterComponent(customIDBuyAll, handleBuyButton(true))
	r.RegisterComponent(customIDPage, handlePageButton)
	return r
}

// Register adds a command to the registry
func (r *CommandRegistry) Register(cmd *discordgo.ApplicationCommand, handler CommandHandler) {
	r.Commands[cmd.Name] = cmd
	r.Handlers[cmd.Name] = handler
}

// RegisterComponent routes custom ids starting with prefix to handler
func (r *CommandRegistry) RegisterComponent(prefix string, handler ComponentHandler) {
	r.Components[prefix] = handler
}

// Handle processes a slash command interaction
func (r *CommandRegistry) Handle(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps) {
	name := i.ApplicationCommandData().Name
	h, ok := r.Handlers[name]
	if !ok {
		return
	}

	err := h(ctx, s, i, deps)
	recordCommand(name, err)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgCommandFailed, "command", name, "error", err)
	}
}

// HandleComponent processes a button press
func (r *CommandRegistry) HandleComponent(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps) {
	customID := i.MessageComponentData().CustomID
	prefix, args := splitCustomID(customID)
	h, ok := r.Components[prefix]
	if !ok {
		logger.FromContext(ctx).Warn(LogMsgUnknownComponent, "custom_id", customID)
		return
	}

	err := h(ctx, s, i, deps, args)
	recordCommand(prefix, err)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgComponentFailed, "custom_id", customID, "error", err)
	}
}

func recordCommand(name string, err error) {
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	}
	metrics.DiscordCommands.WithLabelValues(name, result).Inc()
}

// RegisterCommands registers or updates commands with Discord, in one guild
// when guildID is set. It only calls the bulk overwrite when the command set
// changed, to avoid rate limits, and returns the number of commands registered.
func RegisterCommands(s *discordgo.Session, registry *CommandRegistry, guildID string, forceUpdate bool) (int, error) {
	logger.Info(LogMsgCheckingCommands, "guild_id", guildID)

	appID := applicationID(s)

	desiredCmds := make([]*discordgo.ApplicationCommand, 0, len(registry.Commands))
	for _, cmd := range registry.Commands {
		desiredCmds = append(desiredCmds, cmd)
	}
	sort.Slice(desiredCmds, func(a, b int) bool { return desiredCmds[a].Name < desiredCmds[b].Name })

	if !forceUpdate {
		existingCmds, err := s.ApplicationCommands(appID, guildID)
		if err != nil {
			return 0, fmt.Errorf(ErrMsgFetchCommandsFmt, err)
		}
		if commandsEqual(existingCmds, desiredCmds) {
			logger.Info(LogMsgCommandsUnchanged, "count", len(existingCmds))
			return len(existingCmds), nil
		}
	}

	registered, err := s.ApplicationCommandBulkOverwrite(appID, guildID, desiredCmds)
	if err != nil {
		return 0, fmt.Errorf(ErrMsgUpdateCommandsFmt, err)
	}

	logger.Info(LogMsgCommandsUpdated, "count", len(registered), "forced", forceUpdate)
	return len(registered), nil
}

func applicationID(s *discordgo.Session) string {
	if s.State != nil && s.State.User != nil {
		return s.State.User.ID
	}
	return ""
}

// commandsEqual checks if two command sets are equivalent
func commandsEqual(existing, desired []*discordgo.ApplicationCommand) bool {
	if len(existing) != len(desired) {
		return false
	}

	existingMap := make(map[string]*discordgo.ApplicationCommand)
	for _, cmd := range existing {
		existingMap[cmd.Name] = cmd
	}

	for _, desired := range desired {
		existing, ok := existingMap[desired.Name]
		if !ok {
			return false
		}
		if !commandEqual(existing, desired) {
			return false
		}
	}

	return true
}

// commandEqual checks if two commands are equivalent
func commandEqual(a, b *discordgo.ApplicationCommand) bool {
	if a.Name != b.Name || a.Description != b.Description {
		return false
	}

	if (a.DefaultMemberPermissions == nil) != (b.DefaultMemberPermissions == nil) {
		return false
	}
	if a.DefaultMemberPermissions != nil && *a.DefaultMemberPermissions != *b.DefaultMemberPermissions {
		return false
	}

	if len(a.Options) != len(b.Options) {
		return false
	}
	for i := range a.Options {
		if !optionEqual(a.Options[i], b.Options[i]) {
			return false
		}
	}

	return true
}

// optionEqual checks if two command options are equivalent
func optionEqual(a, b *discordgo.ApplicationCommandOption) bool {
	if a.Type != b.Type || a.Name != b.Name || a.Description != b.Description || a.Required != b.Required {
		return false
	}
	if a.MinValue != nil && b.MinValue != nil && *a.MinValue != *b.MinValue {
		return false
	}
	if a.MaxValue != b.MaxValue {
		return false
	}
	return (a.MinValue == nil) == (b.MinValue == nil)
}

// deferResponse acknowledges a command with a deferred message.
// Required before any operation that might take longer than 3 seconds.
// Returns false if deferral failed (should return early from handler).
func deferResponse(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		logError(ctx, LogMsgRespondFailed, err)
		return false
	}
	return true
}

// deferUpdate acknowledges a button press; the message is edited afterwards
func deferUpdate(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		logError(ctx, LogMsgRespondFailed, err)
		return false
	}
	return true
}

// respond sends an immediate reply, visible only to the caller when ephemeral
func respond(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, content string, ephemeral bool) {
	data := &discordgo.InteractionResponseData{Content: content}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}); err != nil {
		logError(ctx, LogMsgRespondFailed, err)
	}
}

// respondError replaces a deferred response with an error message
func respondError(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	editResponse(ctx, s, i, message)
}

// editResponse replaces a deferred response with plain text
func editResponse(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &message,
	}); err != nil {
		logError(ctx, LogMsgEditFailed, err)
	}
}

// followup sends an extra message after the interaction was acknowledged
func followup(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, params *discordgo.WebhookParams) {
	if _, err := s.FollowupMessageCreate(i.Interaction, true, params); err != nil {
		logError(ctx, LogMsgFollowupFailed, err)
	}
}

// followupEphemeral sends a followup only the caller can see
func followupEphemeral(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	followup(ctx, s, i, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
}

// sendEmbed replaces a deferred response with an embed
func sendEmbed(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	}); err != nil {
		logError(ctx, LogMsgEditFailed, err)
	}
}

// createEmbed creates a standard gold embed
func createEmbed(title, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       EmbedColor,
	}
}

// getInteractionUser extracts the user from an interaction.
// Handles both guild (i.Member.User) and DM (i.User) contexts.
func getInteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// getOption returns the named command option
func getOption(i *discordgo.InteractionCreate, name string) (*discordgo.ApplicationCommandInteractionDataOption, bool) {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name {
			return opt, true
		}
	}
	return nil, false
}

// parseSnowflake converts a Discord id to the int64 the store keys on
func parseSnowflake(id string) (int64, error) {
	v, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf(ErrMsgInvalidIDFmt, id, err)
	}
	return v, nil
}

// invocation identifies who ran a command and where
type invocation struct {
	GuildID  int64
	MemberID int64
}

// guildInvocation rejects interactions outside a guild, replying to the user
func guildInvocation(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) (invocation, error) {
	user := getInteractionUser(i)
	if i.GuildID == "" || user == nil {
		respond(ctx, s, i, MsgGuildOnly, true)
		return invocation{}, errGuildOnly
	}

	guildID, err := parseSnowflake(i.GuildID)
	if err != nil {
		respond(ctx, s, i, MsgGenericError, true)
		return invocation{}, err
	}
	memberID, err := parseSnowflake(user.ID)
	if err != nil {
		respond(ctx, s, i, MsgGenericError, true)
		return invocation{}, err
	}
	return invocation{GuildID: guildID, MemberID: memberID}, nil
}

// memberOption reads a user option, defaulting to fallback when absent
func memberOption(i *discordgo.InteractionCreate, name string, fallback int64) (int64, error) {
	opt, ok := getOption(i, name)
	if !ok {
		return fallback, nil
	}
	return parseSnowflake(opt.UserValue(nil).ID)
}

// isAdmin reports whether the invoking member has the administrator permission
func isAdmin(i *discordgo.InteractionCreate) bool {
	return i.Member != nil && i.Member.Permissions&discordgo.PermissionAdministrator != 0
}

// displayName picks the nickname or account name of userID for embed titles
func displayName(i *discordgo.InteractionCreate, userID string) string {
	if i.Member != nil && i.Member.User != nil && i.Member.User.ID == userID {
		return memberName(i.Member, i.Member.User)
	}
	if data, ok := i.Data.(discordgo.ApplicationCommandInteractionData); ok && data.Resolved != nil {
		if u, ok := data.Resolved.Users[userID]; ok {
			return memberName(data.Resolved.Members[userID], u)
		}
	}
	return userID
}

func memberName(m *discordgo.Member, u *discordgo.User) string {
	switch {
	case m != nil && m.Nick != "":
		return m.Nick
	case u.GlobalName != "":
		return u.GlobalName
	default:
		return u.Username
	}
}

var (
	errGuildOnly   = errors.New("command used outside a guild")
	errForbidden   = errors.New("caller lacks permission")
	errExpired     = errors.New("view expired")
	errDeferFailed = errors.New("failed to acknowledge interaction")
)

func logError(ctx context.Context, msg string, err error) {
	logger.FromContext(ctx).Error(msg, "error", err)
}

// errorMessage maps a core error to what the member sees. cost fills in the
// price for insufficient funds.
func errorMessage(err error, cost int) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return fmt.Sprintf(MsgNotEnoughPointsFmt, formatNumber(cost))
	case errors.Is(err, domain.ErrPoolExhausted):
		return MsgMapAlreadyComplete
	case errors.Is(err, domain.ErrInvalidAmount):
		return MsgPointsOutOfRange
	case domain.IsRetryable(err):
		return MsgConflictRetry
	case errors.Is(err, domain.ErrStorageUnavailable):
		return MsgStorageUnavailable
	default:
		return MsgGenericError
	}
}

// custom ids are prefix:arg:arg...
const customIDSep = ":"

func joinCustomID(prefix string, args ...string) string {
	return strings.Join(append([]string{prefix}, args...), customIDSep)
}

func splitCustomID(customID string) (string, []string) {
	parts := strings.Split(customID, customIDSep)
	return parts[0], parts[1:]
}
