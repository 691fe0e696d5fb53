package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"airtime_agent/internal/api/routers"
	"airtime_agent/internal/services"
	"airtime_agent/internal/storage/sqlite"
	"airtime_agent/internal/tools"
	"airtime_agent/pkg/utils"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on process environment")
	}

	utils.InitLogger()

	username := os.Getenv("AT_USERNAME")
	apiKey := os.Getenv("AT_API_KEY")
	country := os.Getenv("COUNTRY")
	defaultCurrency := os.Getenv("CURRENCY_CODE")

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "airtime_transactions.db"
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = ":8080"
	}

	store, err := sqlite.Open(dbPath)
	if err != nil {
		utils.Logger.Fatal("DB connection failed: ", err)
	}
	defer store.Close()

	client, err := services.NewAfricasTalkingClient(username, apiKey)
	if err != nil {
		utils.Logger.Fatal("Africa's Talking client init failed: ", err)
	}
	if baseURL := os.Getenv("AT_BASE_URL"); baseURL != "" {
		client.BaseURL = baseURL
	}

	airtimeService := services.NewAirtimeService(client, store, country)

	registry := tools.NewRegistry(
		tools.NewCheckBalanceTool(airtimeService),
		tools.NewLoadAirtimeTool(airtimeService, defaultCurrency),
		tools.NewGetLastTopupsTool(store),
		tools.NewSumLastNTopupsTool(store),
		tools.NewCountTopupsByNumberTool(airtimeService),
	)

	router := routers.MainRouter(registry)

	server := &http.Server{
		Addr:    port,
		Handler: router,
	}

	fmt.Println("Server is running on port", port)
	err = server.ListenAndServe()
	if err != nil {
		log.Fatalln("Error starting the server", err)
	}
}
