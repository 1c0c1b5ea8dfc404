package main

import (
	"bufio"
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	appdb "github.com/Aisekaisee/Tourist-Safety-App/internal/db"
)

func main() {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Println("==== Tourist Safety CLI ====")
		fmt.Println("1) Health check API")
		fmt.Println("2) Seed database (create sample user)")
		fmt.Println("3) Simulate SOS (activate + deactivate)")
		fmt.Println("4) Exit")
		fmt.Print("Select option: ")
		choice, _ := reader.ReadString('\n')
		choice = strings.TrimSpace(choice)
		switch choice {
		case "1":
			doHealthCheck()
		case "2":
			doSeed()
		case "3":
			doSimulateSOS()
		case "4":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Invalid option")
		}
		fmt.Println()
	}
}

func baseURL() string {
	base := os.Getenv("BASE_URL")
	if base == "" {
		base = "http://127.0.0.1:8080"
	}
	return strings.TrimRight(base, "/")
}

func doHealthCheck() {
	resp, err := http.Get(baseURL() + "/api/health")
	if err != nil {
		fmt.Println("Health: ERROR:", err)
		return
	}
	defer resp.Body.Close()
	fmt.Println("Health status:", resp.Status)
}

func doSeed() {
	db, err := appdb.Connect()
	if err != nil {
		log.Println("DB connect error:", err)
		return
	}
	defer db.Close()
	if err := appdb.EnsureSchema(db); err != nil {
		log.Println("Ensure schema error:", err)
		return
	}
	seedUser(db)
}

// doSimulateSOS logs in as the demo user and runs one full SOS round trip
// against the API: activate with a fixed position, poll status, deactivate.
func doSimulateSOS() {
	token, err := login("demo@example.com", "demo1234")
	if err != nil {
		fmt.Println("SOS simulation: login failed:", err)
		fmt.Println("Hint: run option 2 first to seed the demo user")
		return
	}

	activateBody := map[string]interface{}{
		"permission_granted": true,
		"latitude":           37.7749,
		"longitude":          -122.4194,
		"accuracy_m":         12.0,
	}
	var report map[string]interface{}
	if err := post(token, "/api/sos/activate", activateBody, &report); err != nil {
		fmt.Println("SOS simulation: activate failed:", err)
		return
	}
	fmt.Println("Activated:", report["activated"], "- notified:", report["notified_count"])

	time.Sleep(2 * time.Second)

	var status map[string]interface{}
	if err := get(token, "/api/sos/status", &status); err == nil {
		fmt.Println("Status: active =", status["active"], ", elapsed =", status["elapsed"])
	}

	var deactivation map[string]interface{}
	if err := post(token, "/api/sos/deactivate", map[string]interface{}{}, &deactivation); err != nil {
		fmt.Println("SOS simulation: deactivate failed:", err)
		return
	}
	fmt.Println("Deactivated: was_active =", deactivation["was_active"])
}

func login(email, password string) (string, error) {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := http.Post(baseURL()+"/api/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("status %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}
	var parsed struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	return parsed.Token, nil
}

func post(token, path string, body interface{}, out interface{}) error {
	raw, _ := json.Marshal(body)
	req, err := http.NewRequest(http.MethodPost, baseURL()+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		rawBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %s: %s", resp.Status, strings.TrimSpace(string(rawBody)))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func get(token, path string, out interface{}) error {
	req, err := http.NewRequest(http.MethodGet, baseURL()+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		rawBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %s: %s", resp.Status, strings.TrimSpace(string(rawBody)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func seedUser(db *sql.DB) {
	// Creates a sample user if not exists
	email := "demo@example.com"
	name := "Demo"
	password := "demo1234"
	var exists int
	_ = db.QueryRow("SELECT 1 FROM users WHERE email = ?", email).Scan(&exists)
	if exists == 1 {
		fmt.Println("Seed: user 'demo@example.com' already exists")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Println("Seed: bcrypt error:", err)
		return
	}
	_, err = db.Exec("INSERT INTO users (email,name,password_hash) VALUES (?,?,?)", email, name, string(hash))
	if err != nil {
		fmt.Println("Seed: insert error:", err)
		return
	}
	fmt.Println("Seed: created user 'demo@example.com' with password 'demo1234'")
}
