package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"family-meal-planner/internal/app"
	"family-meal-planner/internal/cart"
	"family-meal-planner/internal/clipper"
	"family-meal-planner/internal/config"
	"family-meal-planner/internal/database"
	"family-meal-planner/internal/llm"
	"family-meal-planner/internal/metrics"
	"family-meal-planner/internal/planner"
	"family-meal-planner/internal/shopping"
	"family-meal-planner/internal/store"
)

func main() {
	// A missing .env file is fine; the environment may carry everything.
	_ = godotenv.Load()

	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	textGen, err := llm.NewFromConfig(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize generation backend: %v", err)
	}
	if closer, ok := textGen.(io.Closer); ok {
		defer closer.Close()
	}

	db, err := database.NewDB(cfg.MetricsDBPath, logger)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()
	metricsStore := metrics.NewStore(db.SQL)

	textGen = llm.NewInstrumented(textGen, string(cfg.Provider), metricsStore, logger)

	prefs, err := store.New(cfg.DataFilePath)
	if err != nil {
		log.Fatalf("Failed to initialize preference store: %v", err)
	}

	shopper := shopping.NewGenerator(textGen, logger)
	mealPlanner := planner.NewPlanner(textGen, prefs, shopper, logger)
	cartClient := cart.New(cfg.GroceryAPIKey, cfg.GroceryUserID, logger)
	recipeClipper := clipper.NewClipper(textGen, logger)

	application := app.New(cfg, logger, prefs, mealPlanner, cartClient, recipeClipper, metricsStore)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	if err := runCommand(ctx, application, metricsStore, os.Args[1], os.Args[2:]); err != nil {
		log.Fatalf("%v", err)
	}
}

func runCommand(ctx context.Context, application *app.App, metricsStore *metrics.Store, command string, args []string) error {
	switch command {
	case "plan":
		return application.GeneratePlan(ctx)

	case "recipe":
		recipeCmd := flag.NewFlagSet("recipe", flag.ExitOnError)
		planID := recipeCmd.String("plan", "", "Plan ID (defaults to the latest plan)")
		recipeCmd.Parse(args)
		if recipeCmd.NArg() < 1 {
			return fmt.Errorf("usage: recipe [-plan ID] <day number>")
		}
		day, err := strconv.Atoi(recipeCmd.Arg(0))
		if err != nil {
			return fmt.Errorf("invalid day number %q", recipeCmd.Arg(0))
		}
		return application.ShowRecipe(*planID, day)

	case "shopping-list":
		planID := ""
		if len(args) > 0 {
			planID = args[0]
		}
		return application.ShowShoppingList(ctx, planID)

	case "cart":
		planID := ""
		if len(args) > 0 {
			planID = args[0]
		}
		return application.AddToCart(ctx, planID)

	case "prefs":
		return runPrefsCommand(application, args)

	case "meal-count":
		if len(args) == 0 {
			return application.ShowMealCount()
		}
		count, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid meal count %q", args[0])
		}
		return application.SetMealCount(count)

	case "history":
		return application.History()

	case "clip":
		if len(args) < 1 {
			return fmt.Errorf("usage: clip <url>")
		}
		return application.ClipRecipe(ctx, args[0])

	case "metrics":
		metricsCmd := flag.NewFlagSet("metrics", flag.ExitOnError)
		days := metricsCmd.Int("days", 7, "Report usage for the last N days")
		metricsCmd.Parse(args)
		return application.MetricsReport(*days)

	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(args)
		affected, err := metricsStore.Cleanup(*days)
		if err != nil {
			return fmt.Errorf("cleanup failed: %w", err)
		}
		fmt.Printf("Removed %d old metric records.\n", affected)
		return nil

	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func runPrefsCommand(application *app.App, args []string) error {
	if len(args) == 0 {
		return application.ListPreferences()
	}

	prefsCmd := flag.NewFlagSet("prefs", flag.ExitOnError)
	dislike := prefsCmd.Bool("dislike", false, "Target the disliked list instead of the liked list")

	switch args[0] {
	case "list":
		return application.ListPreferences()
	case "add":
		prefsCmd.Parse(args[1:])
		if prefsCmd.NArg() < 1 {
			return fmt.Errorf("usage: prefs add [-dislike] <food>")
		}
		return application.AddPreference(prefsCmd.Arg(0), *dislike)
	case "remove":
		prefsCmd.Parse(args[1:])
		if prefsCmd.NArg() < 1 {
			return fmt.Errorf("usage: prefs remove [-dislike] <food>")
		}
		return application.RemovePreference(prefsCmd.Arg(0), *dislike)
	default:
		return fmt.Errorf("unknown prefs subcommand: %s", args[0])
	}
}

func printUsage() {
	fmt.Println("Usage: family-meal-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  plan                     Generate a new meal plan")
	fmt.Println("  recipe [-plan ID] <day>  Show the recipe for one day of a plan")
	fmt.Println("  shopping-list [plan-id]  Show the shopping list for a plan")
	fmt.Println("  cart [plan-id]           Add a plan's shopping list to the grocery cart")
	fmt.Println("  prefs [list|add|remove]  Manage food preferences")
	fmt.Println("  meal-count [n]           Show or set the number of meals per plan")
	fmt.Println("  history                  Show meal planning history")
	fmt.Println("  clip <url>               Import a recipe from a web page")
	fmt.Println("  metrics [-days N]        Show backend usage")
	fmt.Println("  metrics-cleanup [-days N] Remove old metric records")
}
