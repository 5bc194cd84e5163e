package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

const dateLayout = "2006-01-02"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Initialize the schema and load inventory data from CSV files",
		Flags: []cli.Flag{
			newDBURLFlag(),
		},
		Commands: []*cli.Command{
			{
				Name:   "schema",
				Usage:  "Create the tables if they do not exist",
				Flags:  []cli.Flag{newDBURLFlag()},
				Action: runSchema,
			},
			{
				Name:  "snapshots",
				Usage: "Load inventory counts from a CSV file (sku,date,qty)",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "file",
						Usage:   "Path to the snapshots CSV",
						Value:   "./data/seeds/snapshots.csv",
						EnvVars: []string{"SNAPSHOTS_FILE"},
					},
				},
				Action: runSnapshots,
			},
			{
				Name:  "orders",
				Usage: "Load purchase orders from a CSV file (sku,po_number,order_date,qty,received,eta,received_date,vendor)",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "file",
						Usage:   "Path to the purchase orders CSV",
						Value:   "./data/seeds/purchase_orders.csv",
						EnvVars: []string{"ORDERS_FILE"},
					},
				},
				Action: runOrders,
			},
			{
				Name:  "settings",
				Usage: "Load per-SKU replenishment policies from a CSV file (sku,lead_time_days,min_days,target_months)",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "file",
						Usage:   "Path to the settings CSV",
						Value:   "./data/seeds/settings.csv",
						EnvVars: []string{"SETTINGS_FILE"},
					},
				},
				Action: runSettings,
			},
			{
				Name:  "all",
				Usage: "Create the schema and load every CSV",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{Name: "snapshots-file", Value: "./data/seeds/snapshots.csv", EnvVars: []string{"SNAPSHOTS_FILE"}},
					&cli.StringFlag{Name: "orders-file", Value: "./data/seeds/purchase_orders.csv", EnvVars: []string{"ORDERS_FILE"}},
					&cli.StringFlag{Name: "settings-file", Value: "./data/seeds/settings.csv", EnvVars: []string{"SETTINGS_FILE"}},
				},
				Action: runAll,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openDB(c *cli.Context) (*sql.DB, error) {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func runSchema(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	return createSchema(c.Context, db)
}

func createSchema(ctx context.Context, db *sql.DB) error {
	log.Println("Creating schema...")

	const schema = `
		CREATE TABLE IF NOT EXISTS snapshots (
			id BIGSERIAL PRIMARY KEY,
			sku TEXT NOT NULL,
			count_date DATE NOT NULL,
			qty INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_snapshots_sku ON snapshots (sku);

		CREATE TABLE IF NOT EXISTS purchase_orders (
			id BIGSERIAL PRIMARY KEY,
			sku TEXT NOT NULL,
			po_number TEXT NOT NULL DEFAULT '',
			order_date DATE NOT NULL,
			qty INTEGER NOT NULL,
			received BOOLEAN NOT NULL DEFAULT FALSE,
			eta DATE,
			received_date DATE,
			vendor TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_purchase_orders_sku ON purchase_orders (sku);

		CREATE TABLE IF NOT EXISTS sku_settings (
			sku TEXT PRIMARY KEY,
			lead_time_days INTEGER NOT NULL,
			min_days INTEGER NOT NULL,
			target_months DOUBLE PRECISION NOT NULL
		);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	log.Println("Schema ready")
	return nil
}

func runSnapshots(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	return seedSnapshots(c.Context, db, c.String("file"))
}

func runOrders(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	return seedOrders(c.Context, db, c.String("file"))
}

func runSettings(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	return seedSettings(c.Context, db, c.String("file"))
}

func runAll(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := createSchema(c.Context, db); err != nil {
		return err
	}
	if err := seedSnapshots(c.Context, db, c.String("snapshots-file")); err != nil {
		return fmt.Errorf("error seeding snapshots: %w", err)
	}
	if err := seedOrders(c.Context, db, c.String("orders-file")); err != nil {
		return fmt.Errorf("error seeding purchase orders: %w", err)
	}
	if err := seedSettings(c.Context, db, c.String("settings-file")); err != nil {
		return fmt.Errorf("error seeding settings: %w", err)
	}
	return nil
}

func seedSnapshots(ctx context.Context, db *sql.DB, filePath string) error {
	return withRecords(ctx, db, "snapshots", filePath, func(ctx context.Context, tx *sql.Tx, record []string) error {
		if len(record) < 3 {
			return fmt.Errorf("expected at least 3 columns, got %v", record)
		}

		date, err := time.Parse(dateLayout, strings.TrimSpace(record[1]))
		if err != nil {
			return fmt.Errorf("invalid count date %q: %w", record[1], err)
		}
		qty, err := strconv.Atoi(strings.TrimSpace(record[2]))
		if err != nil {
			return fmt.Errorf("invalid qty %q: %w", record[2], err)
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO snapshots (sku, count_date, qty) VALUES ($1, $2, $3)",
			strings.TrimSpace(record[0]), date, qty)
		return err
	})
}

func seedOrders(ctx context.Context, db *sql.DB, filePath string) error {
	return withRecords(ctx, db, "purchase_orders", filePath, func(ctx context.Context, tx *sql.Tx, record []string) error {
		if len(record) < 8 {
			return fmt.Errorf("expected at least 8 columns, got %v", record)
		}

		orderDate, err := time.Parse(dateLayout, strings.TrimSpace(record[2]))
		if err != nil {
			return fmt.Errorf("invalid order date %q: %w", record[2], err)
		}
		qty, err := strconv.Atoi(strings.TrimSpace(record[3]))
		if err != nil {
			return fmt.Errorf("invalid qty %q: %w", record[3], err)
		}
		received, err := strconv.ParseBool(strings.TrimSpace(record[4]))
		if err != nil {
			return fmt.Errorf("invalid received flag %q: %w", record[4], err)
		}

		// Empty optional dates become NULL, never day zero.
		eta, err := nullableDate(record[5])
		if err != nil {
			return fmt.Errorf("invalid eta %q: %w", record[5], err)
		}
		receivedDate, err := nullableDate(record[6])
		if err != nil {
			return fmt.Errorf("invalid received date %q: %w", record[6], err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO purchase_orders (sku, po_number, order_date, qty, received, eta, received_date, vendor)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			strings.TrimSpace(record[0]), strings.TrimSpace(record[1]), orderDate, qty,
			received, eta, receivedDate, strings.TrimSpace(record[7]))
		return err
	})
}

func seedSettings(ctx context.Context, db *sql.DB, filePath string) error {
	return withRecords(ctx, db, "sku_settings", filePath, func(ctx context.Context, tx *sql.Tx, record []string) error {
		if len(record) < 4 {
			return fmt.Errorf("expected at least 4 columns, got %v", record)
		}

		leadTime, err := strconv.Atoi(strings.TrimSpace(record[1]))
		if err != nil {
			return fmt.Errorf("invalid lead time %q: %w", record[1], err)
		}
		minDays, err := strconv.Atoi(strings.TrimSpace(record[2]))
		if err != nil {
			return fmt.Errorf("invalid min days %q: %w", record[2], err)
		}
		targetMonths, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
		if err != nil {
			return fmt.Errorf("invalid target months %q: %w", record[3], err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO sku_settings (sku, lead_time_days, min_days, target_months)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (sku) DO UPDATE SET
				lead_time_days = EXCLUDED.lead_time_days,
				min_days = EXCLUDED.min_days,
				target_months = EXCLUDED.target_months`,
			strings.TrimSpace(record[0]), leadTime, minDays, targetMonths)
		return err
	})
}

func nullableDate(value string) (sql.NullTime, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return sql.NullTime{}, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return sql.NullTime{}, err
	}
	return sql.NullTime{Time: t, Valid: true}, nil
}

// withRecords streams a CSV (skipping the header) through fn inside one
// transaction, so a bad row aborts the whole load.
func withRecords(ctx context.Context, db *sql.DB, name, filePath string, fn func(context.Context, *sql.Tx, []string) error) error {
	log.Printf("Seeding %s from %s\n", name, filePath)

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rowCount := 0
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("failed to read CSV record: %w", err)
		}

		if err := fn(ctx, tx, record); err != nil {
			return fmt.Errorf("row %d: %w", rowCount+2, err)
		}

		rowCount++
		if rowCount%5000 == 0 {
			log.Printf("Seeded %d %s rows...", rowCount, name)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("Successfully seeded %s (%d records)\n", name, rowCount)
	return nil
}
