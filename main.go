package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"GuildBot/core"
	"GuildBot/core/database"
	"GuildBot/core/discord"
	"GuildBot/core/dispatch"
	"GuildBot/core/dispatch/handlers"
	"GuildBot/core/guilds"
	"GuildBot/core/permissions"

	"github.com/bwmarrin/discordgo"
)

const shutdownTimeout = 30 * time.Second

// Variables used for command line parameters
var (
	settingsFile string
)

func init() {

	flag.StringVar(&settingsFile, "c", "config-dev.json", "Configuration path")
	flag.Parse()
}

func main() {
	if err := core.LoadSettings(settingsFile); err != nil {
		core.LogFatal("Failed to load configuration: ", err)
		return
	}

	db, err := database.Open(core.Settings.Database())
	if err != nil {
		core.LogFatal("error opening database,", err)
		return
	}
	defer db.Close()

	// Create a new Discord session using the provided bot token.
	dg, err := discordgo.New("Bot " + core.Settings.AuthToken())
	if err != nil {
		core.LogFatal("error creating Discord session,", err)
		return
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers | discordgo.IntentMessageContent

	adapter := discord.NewAdapter(dg, dg.State)
	provider := guilds.NewProvider(db, guilds.DefaultsFor(core.Settings.DefaultPrefix()), core.Settings.GuildCacheTTL())
	authorizer := permissions.NewAuthorizer(core.Settings.OwnerIds(), db, adapter)

	pool := dispatch.NewPool(core.Settings.PoolSize())
	pool.Start()

	registry := dispatch.NewRegistry()
	err = handlers.Register(&handlers.Deps{
		DB:            db,
		Guilds:        provider,
		Registry:      registry,
		Authorizer:    authorizer,
		Pool:          pool,
		DefaultPrefix: core.Settings.DefaultPrefix(),
		HTTP:          &http.Client{Timeout: 10 * time.Second},
		AnimalRate:    handlers.NewAnimalLimiter(2*time.Second, 3),
	})
	if err != nil {
		core.LogFatal("error registering commands,", err)
		return
	}

	dispatcher := dispatch.NewDispatcher(dispatch.Options{
		Registry:      registry,
		Guilds:        provider,
		Authorizer:    authorizer,
		Platform:      adapter,
		Executor:      pool,
		DefaultPrefix: core.Settings.DefaultPrefix(),
		Development:   core.Settings.IsDevelopment(),
	})
	dg.AddHandler(adapter.MessageCreate(dispatcher))

	// Open a websocket connection to Discord and begin listening.
	err = dg.Open()
	if err != nil {
		core.LogFatal("error opening connection,", err)
		return
	}

	// Wait here until CTRL-C or other term signal is received.
	core.LogInfoF("Bot is now running.  Press CTRL-C to exit.")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	// Stop taking gateway events first, then let queued commands finish.
	dg.Close()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := pool.Shutdown(ctx); err != nil {
		core.LogWarn("Commands still running at shutdown: ", err)
	}
}
