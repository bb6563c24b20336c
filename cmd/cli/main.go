package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
	userID  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tallybook-cli",
		Short: "Tallybook CLI tool",
		Long:  `A command line interface for querying the Tallybook API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Tallybook API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "", "Acting user ID (sent as X-User-ID)")

	balanceCmd := &cobra.Command{
		Use:   "balance <account-id>",
		Short: "Show an account's balance",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			date, _ := cmd.Flags().GetString("date")
			showBalance(args[0], date)
		},
	}
	balanceCmd.Flags().String("date", "", "Balance as of this day (YYYY-MM-DD, default today)")

	seriesCmd := &cobra.Command{
		Use:   "series <account-id>",
		Short: "Show an account's balance trend over a date range",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			from, _ := cmd.Flags().GetString("from")
			to, _ := cmd.Flags().GetString("to")
			showSeries(args[0], from, to)
		},
	}
	seriesCmd.Flags().String("from", "", "Range start (YYYY-MM-DD)")
	seriesCmd.Flags().String("to", "", "Range end (YYYY-MM-DD)")
	seriesCmd.MarkFlagRequired("from")
	seriesCmd.MarkFlagRequired("to")

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check service health",
		Run: func(cmd *cobra.Command, args []string) {
			checkHealth()
		},
	}

	rootCmd.AddCommand(balanceCmd, seriesCmd, healthCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func get(path string) []byte {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	return body
}

func showBalance(accountID, date string) {
	path := "/api/v1/accounts/" + accountID + "/balance"
	if date != "" {
		path += "?date=" + date
	}

	var result struct {
		AccountID string `json:"account_id"`
		Date      string `json:"date"`
		Balance   string `json:"balance"`
	}
	if err := json.Unmarshal(get(path), &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Account:  %s\n", result.AccountID)
	fmt.Printf("Date:     %s\n", result.Date)
	fmt.Printf("Balance:  %s\n", result.Balance)
}

func showSeries(accountID, from, to string) {
	path := fmt.Sprintf("/api/v1/accounts/%s/balance/series?from=%s&to=%s", accountID, from, to)

	var result struct {
		AccountID string `json:"account_id"`
		From      string `json:"from"`
		To        string `json:"to"`
		Opening   string `json:"opening"`
		Points    []struct {
			Date    string `json:"date"`
			Balance string `json:"balance"`
		} `json:"points"`
	}
	if err := json.Unmarshal(get(path), &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Account:  %s\n", result.AccountID)
	fmt.Printf("Range:    %s .. %s\n", result.From, result.To)
	fmt.Printf("Opening:  %s\n", result.Opening)
	for _, p := range result.Points {
		fmt.Printf("  %s  %s\n", p.Date, p.Balance)
	}
	if len(result.Points) == 0 {
		fmt.Println("  (no balance changes in range)")
	}
}

func checkHealth() {
	body := get("/health")

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Status: %s\n", result["status"])
}
