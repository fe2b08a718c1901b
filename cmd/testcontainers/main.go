package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/localnerve/reserva/data"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	flag.Parse()

	usage := `
Run a local MariaDB for reserva with the environment variables from the .env file.

Usage:

testcontainers [-h] [-f ENV_FILE_PATH]

ENV_FILE_PATH: path to the .env file

example
  testcontainers -f /path/to/something/.env
`
	// if -h flag print usage and return
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	} else {
		log.Printf("No environment file specified, using current environment variables\n")
	}

	ctx := context.Background()

	image := getEnv("DB_IMAGE", "mariadb:11")
	rootPassword := getEnv("DB_ROOT_PASSWORD", "reserva-root")

	dbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{"3306/tcp"},
			Env: map[string]string{
				"MARIADB_ROOT_PASSWORD": rootPassword,
			},
			WaitingFor: wait.ForListeningPort("3306/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		log.Fatalf("Failed to start MariaDB: %v\n", err)
	}

	host, _ := dbContainer.Host(ctx)
	port, _ := dbContainer.MappedPort(ctx, "3306/tcp")

	if err := initDatabase(host, port.Port(), rootPassword); err != nil {
		_ = dbContainer.Terminate(ctx)
		log.Fatalf("Failed to initialize database: %v\n", err)
	}

	log.Printf("MariaDB ready: DB_TYPE=mariadb DB_HOST=%s DB_PORT=%s DB_DATABASE=reserva DB_USER=root DB_PASSWORD=%s\n",
		host, port.Port(), rootPassword)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGTSTP, syscall.SIGQUIT)

	sig := <-sigs
	log.Printf("\nReceived signal: %v, terminating MariaDB container...\n", sig)
	if err := dbContainer.Terminate(ctx); err != nil {
		log.Printf("Failed to terminate MariaDB: %v\n", err)
	}
}

// initDatabase applies the embedded DDL and seed statements.
func initDatabase(host, port, rootPassword string) error {
	db, err := sql.Open("mysql", fmt.Sprintf("root:%s@tcp(%s:%s)/", rootPassword, host, port))
	if err != nil {
		return err
	}
	defer db.Close()

	// Wait for the connection to be really ready
	for i := 0; i < 30; i++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	if err != nil {
		return err
	}

	for _, script := range []string{data.InitdbMariaDBTables, data.InitdbMariaDBSeed} {
		for _, statement := range strings.Split(script, ";") {
			statement = strings.TrimSpace(statement)
			if statement == "" {
				continue
			}
			if _, err := db.Exec(statement); err != nil {
				return fmt.Errorf("statement failed: %w", err)
			}
		}
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
