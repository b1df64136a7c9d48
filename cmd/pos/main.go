// Command pos runs the interactive point-of-sale and loyalty terminal for a
// single store: one member shops at a time, the cart feeds the rewards
// engine at checkout, and all state lives in flat text files.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/AJFrosty/YouWee/internal/cart"
	"github.com/AJFrosty/YouWee/internal/checkout"
	"github.com/AJFrosty/YouWee/internal/config"
	"github.com/AJFrosty/YouWee/internal/domain"
	"github.com/AJFrosty/YouWee/internal/inventory"
	"github.com/AJFrosty/YouWee/internal/member"
	"github.com/AJFrosty/YouWee/internal/receipt"
	"github.com/AJFrosty/YouWee/internal/rewards"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("loading config", zap.Error(err))
	}

	inv, err := inventory.NewFileStore(cfg.Storage.InventoryFile, logger)
	if err != nil {
		logger.Fatal("loading inventory", zap.Error(err))
	}
	members, err := member.NewFileStore(cfg.Storage.MembersFile, cfg.Storage.HistoryFile, cfg.Rewards.TierThresholds, logger)
	if err != nil {
		logger.Fatal("loading members", zap.Error(err))
	}
	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		logger.Fatal("building engine config", zap.Error(err))
	}

	engine := rewards.NewEngine(engineCfg, rewards.NewRand(), logger)

	a := &app{
		inventory:   inv,
		members:     members,
		engine:      engine,
		coordinator: checkout.NewCoordinator(inv, members, engine, logger),
		in:          bufio.NewScanner(os.Stdin),
	}
	a.run()
}

type app struct {
	inventory   *inventory.FileStore
	members     *member.FileStore
	engine      *rewards.Engine
	coordinator *checkout.Coordinator
	in          *bufio.Scanner
}

func (a *app) prompt(msg string) string {
	fmt.Print(msg)
	if !a.in.Scan() {
		return ""
	}
	return strings.TrimSpace(a.in.Text())
}

func (a *app) run() {
	for {
		id := a.prompt("Enter Member ID ('new' to register, 'exit' to close): ")
		switch id {
		case "", "exit":
			fmt.Println("Closing for the day...")
			return
		case "new":
			newID, ok := a.register()
			if !ok {
				continue
			}
			id = newID
		}

		if _, err := a.members.Get(id); err != nil {
			fmt.Println("Member not found.")
			continue
		}
		a.serve(id)
	}
}

func (a *app) register() (string, bool) {
	name := a.prompt("Enter first and last name: ")
	email := a.prompt("Enter email: ")
	id, err := a.members.Register(name, email)
	if err != nil {
		fmt.Printf("Registration failed: %v\n", err)
		return "", false
	}
	fmt.Printf("Registered successfully! Member ID: %s\n", id)
	return id, true
}

func (a *app) serve(memberID string) {
	crt := cart.New(memberID)
	for {
		choice := a.prompt("\n1. Add items\n2. Remove items\n3. View cart\n4. Checkout\n0. Cancel session\nChoose an option: ")
		switch choice {
		case "1":
			a.addItems(crt)
		case "2":
			a.removeItems(crt)
		case "3":
			a.showCart(crt)
		case "4":
			a.checkout(crt, memberID)
			return
		case "0":
			return
		default:
			fmt.Println("Invalid choice.")
		}
	}
}

func (a *app) listInventory() {
	for _, item := range a.inventory.List() {
		tag := ""
		if item.Seasonal {
			tag = " (seasonal)"
		}
		fmt.Printf("ID: %s, Name: %s, Price: $%s, Stock: %d%s\n",
			item.ID, item.Name, item.Price.StringFixed(2), item.Stock, tag)
	}
}

func (a *app) addItems(crt *cart.Cart) {
	a.listInventory()
	for {
		id := a.prompt("Item ID to add (blank to stop): ")
		if id == "" {
			return
		}
		item, err := a.inventory.Get(id)
		if err != nil {
			fmt.Println("That item doesn't exist.")
			continue
		}
		qty, err := strconv.Atoi(a.prompt("How many: "))
		if err != nil || qty < 1 {
			fmt.Println("Invalid quantity.")
			continue
		}
		// Stock check counts what this cart already holds.
		if !a.inventory.InStock(id, crt.Quantity(id)+qty) {
			fmt.Printf("Only %d of %s in stock.\n", item.Stock, item.Name)
			continue
		}
		if err := crt.Add(id, qty); err != nil {
			fmt.Printf("Could not add: %v\n", err)
		}
	}
}

func (a *app) removeItems(crt *cart.Cart) {
	if crt.IsEmpty() {
		fmt.Println("Your cart is empty. Nothing to remove.")
		return
	}
	a.showCart(crt)
	for {
		id := a.prompt("Item ID to remove (blank to stop): ")
		if id == "" {
			return
		}
		qty, err := strconv.Atoi(a.prompt("How many: "))
		if err != nil {
			fmt.Println("Invalid quantity.")
			continue
		}
		if err := crt.Remove(id, qty); err != nil {
			fmt.Printf("Could not remove: %v\n", err)
		}
	}
}

func (a *app) showCart(crt *cart.Cart) {
	if crt.IsEmpty() {
		fmt.Println("Your cart is empty.")
		return
	}
	for _, id := range crt.ItemIDs() {
		item, err := a.inventory.Get(id)
		if err != nil {
			continue
		}
		qty := crt.Quantity(id)
		fmt.Printf("ID: %s, Name: %s, Price: $%s, Quantity: %d\n",
			id, item.Name, item.Price.StringFixed(2), qty)
	}
}

func (a *app) checkout(crt *cart.Cart, memberID string) {
	eligible, err := a.coordinator.EligibleRewards(crt, memberID)
	if err != nil {
		fmt.Printf("Cannot check out: %v\n", err)
		return
	}
	if len(eligible) == 0 {
		fmt.Println("No rewards available for this purchase.")
	} else {
		fmt.Println("Eligible rewards:")
		for _, t := range eligible {
			fmt.Printf("  - %s\n", t)
		}
	}

	reward := a.selectReward()
	data, err := a.coordinator.Checkout(crt, memberID, reward)
	if err != nil {
		fmt.Printf("Checkout failed: %v\n", err)
		return
	}
	fmt.Println(receipt.Render(data))
}

// selectReward re-prompts until the customer names a valid tier or opts out
// with '0'. The engine's validator decides validity; this loop is only I/O.
func (a *app) selectReward() *domain.Tier {
	for {
		name := a.prompt("Reward to use ('0' for none): ")
		if name == "0" || name == "" {
			return nil
		}
		if !a.engine.ValidTier(name) {
			fmt.Println("Invalid reward name. Try Apprentice, Explorer, Expert, Master or Legend.")
			continue
		}
		tier, _ := domain.ParseTier(name)
		return &tier
	}
}
