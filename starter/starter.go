package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"laundry-order-system/apiclient"
	"laundry-order-system/codec"
	"laundry-order-system/config"
	"laundry-order-system/models"
	"laundry-order-system/pricing"
	"laundry-order-system/workflows"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
)

func main() {
	create := flag.String("create", "", "Path to a JSON create-order payload ('-' reads stdin)")
	orderID := flag.String("order-id", "", "Attach a workflow to an existing order")
	signal := flag.String("signal", "", "Send signal to workflow ("+signalNames()+")")
	payload := flag.String("payload", "", "JSON payload for -signal")
	query := flag.Bool("query", false, "Query workflow state")
	workflowID := flag.String("workflow-id", "", "Workflow ID for signal/query operations")
	wait := flag.Bool("wait", false, "Wait for the started workflow to complete")

	products := flag.Bool("products", false, "List products with their prices")
	product := flag.String("product", "", "Show a single product")
	orders := flag.Bool("orders", false, "List orders")
	logistics := flag.Bool("logistics", false, "List orders waiting for pickup or delivery scheduling on -date")
	date := flag.String("date", "", "Day for -logistics (YYYY-MM-DD, default today)")
	search := flag.String("search", "", "Search term for -orders, -logistics and -customers")
	statuses := flag.String("statuses", "", "Status filter for -orders, e.g. pendingPickup,pendingDelivery@2026-10-18")
	page := flag.Int("page", 0, "Page index for list commands")

	customers := flag.Bool("customers", false, "Search customer addresses")
	customer := flag.String("customer", "", "Show a single customer address")
	addCustomer := flag.Bool("add-customer", false, "Register a customer address from -name, -phone and -address")
	name := flag.String("name", "", "Customer full name for -add-customer")
	phone := flag.String("phone", "", "Customer phone number for -add-customer")
	address := flag.String("address", "", "Customer address for -add-customer")
	userID := flag.String("user-id", "", "Existing customer id for -add-customer")

	quote := flag.String("quote", "", "Quote an item for the given product id without touching any order")
	width := flag.Float64("width", 0, "Item width in metres for -quote")
	height := flag.Float64("height", 0, "Item height in metres for -quote")
	diagonal := flag.Float64("diagonal", 0, "Item diagonal in metres for -quote")
	express := flag.Bool("express", false, "Use express pricing for -products, -product and -quote")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	// These talk to the back-office API directly; no workflow is involved.
	if *products || *product != "" || *orders || *logistics || *customers || *customer != "" || *addCustomer || *quote != "" {
		api := apiclient.New(cfg.API.BaseURL, apiclient.WithTimeout(cfg.API.Timeout))
		var err error
		switch {
		case *products:
			err = listProducts(ctx, api, os.Stdout, *express)
		case *product != "":
			err = showProduct(ctx, api, os.Stdout, *product, *express)
		case *orders:
			err = listOrders(ctx, api, os.Stdout, *search, *statuses, *page)
		case *logistics:
			err = listLogistics(ctx, api, os.Stdout, *date, *search, *page)
		case *customers:
			err = listCustomers(ctx, api, os.Stdout, *search, *page)
		case *customer != "":
			err = showCustomer(ctx, api, os.Stdout, *customer)
		case *addCustomer:
			err = registerCustomer(ctx, api, os.Stdout, customerPayload(*name, *phone, *address, *userID))
		default:
			err = quoteItem(ctx, api, os.Stdout, quoteDraft(*quote, setFlags(flag.CommandLine), *width, *height, *diagonal), *express)
		}
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	if cfg.Temporal.Generated {
		log.Printf("Warning: Using generated encryption key. Set ENCRYPTION_KEY env var to match worker.")
		log.Printf("Generated key: %s", hex.EncodeToString(cfg.Temporal.EncryptionKey))
	}

	dataConverter, err := codec.NewEncryptionDataConverter(cfg.Temporal.EncryptionKey)
	if err != nil {
		log.Fatalf("Failed to create encryption data converter: %v", err)
	}

	c, err := client.Dial(client.Options{
		HostPort:      cfg.Temporal.Address,
		Namespace:     cfg.Temporal.Namespace,
		DataConverter: dataConverter,
	})
	if err != nil {
		log.Fatalf("Unable to create Temporal client: %v", err)
	}
	defer c.Close()

	if *signal != "" {
		if *workflowID == "" {
			log.Fatal("Workflow ID is required for signal operations. Use -workflow-id flag")
		}
		sendSignal(ctx, c, *workflowID, *signal, *payload)
		return
	}

	if *query {
		if *workflowID == "" {
			log.Fatal("Workflow ID is required for query operations. Use -workflow-id flag")
		}
		queryWorkflowState(ctx, c, *workflowID)
		return
	}

	input, err := workflowInput(*create, *orderID)
	if err != nil {
		log.Fatal(err)
	}
	startWorkflow(ctx, c, cfg.Temporal.TaskQueue, input, *wait)
}

func workflowInput(createPath, orderID string) (models.OrderWorkflowInput, error) {
	switch {
	case createPath != "" && orderID != "":
		return models.OrderWorkflowInput{}, errors.New("use either -create or -order-id, not both")
	case orderID != "":
		return models.OrderWorkflowInput{OrderID: orderID}, nil
	case createPath == "":
		return models.OrderWorkflowInput{}, errors.New("nothing to do: pass -create, -order-id, -signal or -query, or one of the API commands (see -h)")
	}

	var raw []byte
	var err error
	if createPath == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(createPath)
	}
	if err != nil {
		return models.OrderWorkflowInput{}, fmt.Errorf("read create payload: %w", err)
	}

	var order models.CreateOrder
	if err := json.Unmarshal(raw, &order); err != nil {
		return models.OrderWorkflowInput{}, fmt.Errorf("decode create payload: %w", err)
	}
	return models.OrderWorkflowInput{Create: &order}, nil
}

// workflowIDFor names attached workflows after their order so repeated attaches collide
func workflowIDFor(input models.OrderWorkflowInput) string {
	if input.OrderID != "" {
		return "order-" + input.OrderID
	}
	return "order-new-" + uuid.New().String()
}

func startWorkflow(ctx context.Context, c client.Client, taskQueue string, input models.OrderWorkflowInput, wait bool) {
	workflowOptions := client.StartWorkflowOptions{
		ID:        workflowIDFor(input),
		TaskQueue: taskQueue,
	}

	if input.Create != nil {
		log.Printf("Starting workflow for new order with %d item(s)", len(input.Create.OrderItems))
	} else {
		log.Printf("Starting workflow for order: %s", input.OrderID)
	}
	log.Printf("Workflow ID: %s", workflowOptions.ID)

	we, err := c.ExecuteWorkflow(ctx, workflowOptions, workflows.OrderWorkflow, input)
	if err != nil {
		log.Fatalf("Unable to execute workflow: %v", err)
	}

	log.Printf("Started workflow successfully")
	log.Printf("WorkflowID: %s", we.GetID())
	log.Printf("RunID: %s", we.GetRunID())
	log.Println("\nTo query workflow state, run:")
	log.Printf("  go run ./starter -query -workflow-id %s\n", we.GetID())
	log.Println("To send signals, run:")
	log.Printf(`  go run ./starter -signal %s -payload '{"nextStatus":"pendingPickup"}' -workflow-id %s`, workflows.SignalAdvanceStatus, we.GetID())
	log.Printf("  go run ./starter -signal %s -payload 'Клиентът се отказа' -workflow-id %s", workflows.SignalCancel, we.GetID())

	if !wait {
		return
	}

	log.Println("\nWaiting for workflow to complete...")
	var state models.OrderState
	if err := we.Get(ctx, &state); err != nil {
		log.Printf("Workflow completed with error: %v", err)
		return
	}
	log.Printf("Workflow completed: order %s is %s, total %s", state.OrderID, state.Status.DisplayName(), pricing.FormatMoney(state.TotalAmount))
}

func sendSignal(ctx context.Context, c client.Client, workflowID, signal, payload string) {
	arg, err := parseSignal(signal, payload)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("Sending signal '%s' to workflow: %s", signal, workflowID)
	if err := c.SignalWorkflow(ctx, workflowID, "", signal, arg); err != nil {
		log.Fatalf("Failed to send signal: %v", err)
	}
	log.Printf("Signal '%s' sent successfully", signal)
}

func queryWorkflowState(ctx context.Context, c client.Client, workflowID string) {
	log.Printf("Querying workflow state: %s", workflowID)

	resp, err := c.QueryWorkflow(ctx, workflowID, "", workflows.QueryState)
	if err != nil {
		log.Fatalf("Failed to query workflow: %v", err)
	}

	var state models.OrderState
	if err := resp.Get(&state); err != nil {
		log.Fatalf("Failed to decode query result: %v", err)
	}

	stateJSON, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal state: %v", err)
	}

	fmt.Println("\n=== Order State ===")
	fmt.Println(string(stateJSON))
	fmt.Printf("\nStatus: %s\n", state.Status.DisplayName())
	fmt.Printf("Total: %s\n", pricing.FormatMoney(state.TotalAmount))
	if state.LastError != "" {
		fmt.Printf("Last error: %s\n", state.LastError)
	}
}
