package discord

// EmbedColor is the gold used on every embed
const EmbedColor = 0xF9B800

// Map messages
const (
	MsgMapTitleFmt         = "Mapa %s"
	MsgMapProgressFmt      = "Masz już **%d/%d** części mapy!"
	MsgMapProgressOtherFmt = "<@%d> ma już **%d/%d** części mapy!"
	MsgMapCongratulations  = " Gratulacje!"
	MsgBuyOneLabel         = "Kup element"
	MsgBuyAllLabel         = "Kup wszystko"
	MsgPurchasedTitle      = "Zakupiono część mapy!"
	MsgPurchasedManyTitle  = "Zakupiono części mapy!"
	MsgPurchasedFmt        = "Masz aktualnie **%d/%d** części mapy!"
	MsgPurchasedManyFmt    = "Kupiono **%d** części za **%s** 🪙. Masz aktualnie **%d/%d** części mapy!"
	MsgNotMapOwner         = "Nie możesz kupić elementu mapy, bo nie jesteś jej właścicielem!"
	MsgNotEnoughPointsFmt  = "Nie masz wystarczająco dukatów, potrzebujesz **%s** 🪙"
	MsgMapAlreadyComplete  = "Masz już wszystkie części mapy!"
	MsgCompletedTitle      = "Ukończono mapę!"
	MsgCompletedFmt        = "Gratulacje, ukończyłeś/aś mapę jako **%d**!"
	MsgMemberCompletedFmt  = "<@%d> ukończył/a mapę jako **%d**!"
)

// Points messages
const (
	MsgPointsSelfFmt      = "Masz %s pkt"
	MsgPointsOtherFmt     = "<@%d> ma %s pkt"
	MsgPointsZero         = "Wybierz więcej niż 0 punktów!"
	MsgPointsOutOfRange   = "Ta liczba punktów jest poza dozwolonym zakresem."
	MsgPointsAddedFmt     = "Dodano %s pkt <@%d>, ma teraz %s pkt"
	MsgPointsOverdraft    = "Nie można odjąć więcej punktów, niż ten członek posiada."
	MsgPointsTopTitle     = "Top użytkowników"
	MsgTransactionsTitle  = "Historia transakcji %s"
	MsgSegmentTopTitle    = "Ranking map"
	MsgCompletionsTitle   = "Kolejność ukończenia map"
	MsgEmptyList          = "Brak wpisów."
	MsgPageFooterFmt      = "Strona %d"
	MsgPrevPageEmoji      = "⬅️"
	MsgNextPageEmoji      = "➡️"
	MsgReasonPurchase     = "zakup części mapy"
	MsgReasonBulkPurchase = "zakup wielu części mapy"
	MsgReasonAdmin        = "korekta administratora"
)

// Admin messages
const (
	MsgSegmentGrantedFmt = "Przyznano <@%d> część mapy **#%d**."
	MsgSegmentRevokedFmt = "Zabrano <@%d> część mapy **#%d**."
	MsgSegmentNotOwned   = "Ten członek nie posiada tej części mapy."
	MsgSegmentOwned      = "Ten członek ma już tę część mapy."
	MsgMemberMapComplete = "Ten członek ma już wszystkie części mapy."
	MsgInvalidSegmentFmt = "Numer części musi być z zakresu 1-%d."
	MsgAdminOnly         = "Ta komenda wymaga uprawnień administratora."
	MsgOwnerOnly         = "Tylko właściciel bota może użyć tej komendy."
	MsgSyncedFmt         = "Zsynchronizowano %d komend(y)"
)

// General messages
const (
	MsgPongFmt            = "Pong! :ping_pong: \n\nWebsocket latency: %dms"
	MsgGuildOnly          = "Ta komenda działa tylko na serwerze."
	MsgViewExpired        = "Ten przycisk wygasł. Użyj komendy ponownie."
	MsgConflictRetry      = "⚠️ Ktoś był szybszy. Spróbuj ponownie."
	MsgStorageUnavailable = "⚠️ Baza danych jest chwilowo niedostępna. Spróbuj później."
	MsgGenericError       = "❌ Coś poszło nie tak."
)

// Log messages
const (
	LogMsgBotReady          = "Bot is ready"
	LogMsgBotRunning        = "Discord bot is now running"
	LogMsgCommandFailed     = "Command failed"
	LogMsgComponentFailed   = "Component interaction failed"
	LogMsgUnknownComponent  = "Unknown component interaction"
	LogMsgRespondFailed     = "Failed to respond to interaction"
	LogMsgEditFailed        = "Failed to edit interaction response"
	LogMsgFollowupFailed    = "Failed to send followup message"
	LogMsgCheckingCommands  = "Checking Discord commands..."
	LogMsgCommandsUnchanged = "Commands unchanged, skipping registration"
	LogMsgCommandsUpdated   = "Commands updated successfully"
)

// Error messages
const (
	ErrMsgCreateSessionFmt  = "error creating Discord session: %w"
	ErrMsgOpenConnectionFmt = "error opening connection: %w"
	ErrMsgFetchCommandsFmt  = "failed to fetch existing commands: %w"
	ErrMsgUpdateCommandsFmt = "failed to update commands: %w"
	ErrMsgInvalidIDFmt      = "invalid snowflake %q: %w"
	ErrMsgCustomIDFmt       = "malformed custom id %q"
	ErrMsgFetchAppFmt       = "failed to fetch application: %w"
)
