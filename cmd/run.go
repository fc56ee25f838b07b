package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"

	"stovemarket/config"
	"stovemarket/database"
	"stovemarket/events"
	"stovemarket/models"
	"stovemarket/repository"
	"stovemarket/service"
)

const usage = `usage: stovemarket <command> [args...]

commands:
  register <username>
  trade <listingID> <buyerID>
  list <sellerID> <stoveID> <price>
  cancel <listingID> <playerID>
  open <playerID> <lootboxTypeID>
  stats [stoveTypeID]
  migrate up|down [steps]|status`

// services bundles everything a command needs
type services struct {
	catalog  service.CatalogService
	trades   service.TradeService
	listings service.ListingService
	lootbox  service.LootboxService
	stats    service.StatsService
}

// ConfigureLogging applies the configured level and formatter to the global logger
func ConfigureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Warnf("Unknown log level %q, using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// Run opens the store, wires the services and executes one command
func Run(ctx context.Context, args []string) error {
	return run(ctx, config.Get(), args, os.Stdout)
}

func run(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	ConfigureLogging(cfg)

	if len(args) == 0 {
		return fmt.Errorf("%s", usage)
	}

	log.WithFields(log.Fields{
		"driver":      cfg.DatabaseDriver,
		"environment": cfg.Environment,
	}).Debug("Connecting to database")

	db, err := database.Open(ctx, database.OptionsFromConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.WithError(err).Error("Error closing database")
		}
	}()

	eventBus := events.NewBus()
	eventBus.SubscribeAll(auditEvent)
	defer eventBus.Wait()

	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)
	svc := &services{
		catalog:  service.NewCatalogService(uowFactory, cfg.StartingBalance),
		trades:   service.NewTradeService(uowFactory),
		listings: service.NewListingService(uowFactory),
		lootbox:  service.NewLootboxService(uowFactory),
		stats:    service.NewStatsService(uowFactory),
	}

	return svc.dispatch(ctx, args, out)
}

func (s *services) dispatch(ctx context.Context, args []string, out io.Writer) error {
	command, rest := args[0], args[1:]

	switch command {
	case "register":
		if len(rest) != 1 {
			return fmt.Errorf("usage: register <username>")
		}
		player, err := s.catalog.RegisterPlayer(ctx, rest[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "player %d %q registered with balance %d\n", player.ID, player.Username, player.Balance)

	case "trade":
		ids, err := parseIDs(rest, 2, "trade <listingID> <buyerID>")
		if err != nil {
			return err
		}
		result, err := s.trades.ExecuteTrade(ctx, ids[0], ids[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "trade %d: stove %d sold by player %d to player %d for %d\n",
			result.Trade.ID, result.Stove.ID, result.SellerID, result.Trade.BuyerID, result.Listing.Price)

	case "list":
		ids, err := parseIDs(rest, 3, "list <sellerID> <stoveID> <price>")
		if err != nil {
			return err
		}
		listing, err := s.listings.CreateListing(ctx, ids[0], ids[1], ids[2])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "listing %d: stove %d for %d\n", listing.ID, listing.StoveID, listing.Price)

	case "cancel":
		ids, err := parseIDs(rest, 2, "cancel <listingID> <playerID>")
		if err != nil {
			return err
		}
		listing, err := s.listings.CancelListing(ctx, ids[0], ids[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "listing %d %s\n", listing.ID, listing.Status)

	case "open":
		ids, err := parseIDs(rest, 2, "open <playerID> <lootboxTypeID>")
		if err != nil {
			return err
		}
		result, err := s.lootbox.OpenLootbox(ctx, ids[0], ids[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "lootbox %d: %s (%s) stove %d, balance now %d\n",
			result.Lootbox.ID, result.StoveType.Name, result.StoveType.Rarity, result.Stove.ID, result.Player.Balance)

	case "stats":
		if len(rest) == 0 {
			overview, err := s.stats.GetMarketOverview(ctx)
			if err != nil {
				return err
			}
			writeOverview(out, overview)
			return nil
		}
		ids, err := parseIDs(rest, 1, "stats [stoveTypeID]")
		if err != nil {
			return err
		}
		stats, err := s.stats.GetPriceStats(ctx, ids[0])
		if err != nil {
			return err
		}
		writePriceStats(out, stats)

	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}

	return nil
}

// auditEvent writes every committed market event to the log
func auditEvent(ctx context.Context, event events.Event) {
	log.WithFields(log.Fields{
		"event":   event.Type(),
		"payload": fmt.Sprintf("%+v", event),
	}).Info("Market event")
}

func parseIDs(args []string, n int, usage string) ([]int64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("usage: %s", usage)
	}
	ids := make([]int64, len(args))
	for i, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", arg, err)
		}
		ids[i] = id
	}
	return ids, nil
}

func writeOverview(out io.Writer, overview *models.MarketOverview) {
	fmt.Fprintf(out, "players: %d\nstove types: %d\nactive listings: %d\nsold listings: %d\ntrades: %d\n",
		overview.Players, overview.StoveTypes, overview.ActiveListings, overview.SoldListings, overview.Trades)
	for _, ts := range overview.TypeStats {
		fmt.Fprintf(out, "  %-24s %-10s minted %-5d sales %-5d avg %.2f\n",
			ts.StoveType.Name, ts.StoveType.Rarity, ts.Minted, ts.Prices.Count, ts.Prices.Average)
	}
}

func writePriceStats(out io.Writer, stats *models.PriceStats) {
	if stats.Count == 0 {
		fmt.Fprintf(out, "stove type %d has no sales\n", stats.TypeID)
		return
	}
	fmt.Fprintf(out, "stove type %d: %d sales, avg %.2f, median %.2f, min %d, max %d\n",
		stats.TypeID, stats.Count, stats.Average, stats.Median, stats.Min, stats.Max)
}
