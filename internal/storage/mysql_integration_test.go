//go:build integration || !unit

package storage_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"bank_reviews/internal/domain"
	"bank_reviews/internal/storage"
)

func TestRepo_MySQL_InsertAndQuery(t *testing.T) {
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not reachable: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=bank_reviews",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "bank_reviews")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := storage.NewMySQL(db)
	ctx := context.Background()

	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema twice: %v", err)
	}

	ids, err := repo.UpsertBanks(ctx, []string{"Commercial Bank of Ethiopia", "Bank of Abyssinia"})
	if err != nil {
		t.Fatalf("UpsertBanks: %v", err)
	}
	again, err := repo.UpsertBanks(ctx, []string{"Commercial Bank of Ethiopia"})
	if err != nil {
		t.Fatalf("UpsertBanks again: %v", err)
	}
	if again["Commercial Bank of Ethiopia"] != ids["Commercial Bank of Ethiopia"] {
		t.Fatalf("bank id changed: %v vs %v", again, ids)
	}

	n, err := repo.InsertReviews(ctx, ids, []domain.ScoredReview{
		scored("Commercial Bank of Ethiopia", "ምርጥ መተግበሪያ", 5, "2024-05-01", domain.Positive, 0.7, ""),
		scored("Commercial Bank of Ethiopia", "Nice", 5, "2024-05-02", domain.Neutral, -0.1, ""),
		scored("Bank of Abyssinia", "app crashes on transfer", 1, "2024-05-03", domain.Negative, -0.9, "Transaction Performance"),
	})
	if err != nil {
		t.Fatalf("InsertReviews: %v", err)
	}
	if n != 3 {
		t.Fatalf("inserted %d, want 3", n)
	}

	page, err := repo.ListReviews(ctx, "Commercial Bank of Ethiopia", domain.PageQuery{Limit: 10})
	if err != nil {
		t.Fatalf("ListReviews: %v", err)
	}
	if len(page.Items) != 2 || page.Items[0].Date != "2024-05-02" || page.Items[1].Text != "ምርጥ መተግበሪያ" {
		t.Fatalf("unexpected page: %+v", page.Items)
	}

	sum, err := repo.SentimentSummary(ctx)
	if err != nil {
		t.Fatalf("SentimentSummary: %v", err)
	}
	if len(sum) != 2 || sum[1].Bank != "Commercial Bank of Ethiopia" || sum[1].Count != 2 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}
