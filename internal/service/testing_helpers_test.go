package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/animania/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(gdb); err != nil {
			t.Logf("close test database: %v", err)
		}
	})
	return gdb
}

func seedUser(t *testing.T, gdb *gorm.DB, name string) db.User {
	t.Helper()
	user := db.User{Name: name, Email: fmt.Sprintf("%s@example.com", name), Password: "hashed", Role: db.RoleUser}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}
	return user
}

func seedPost(t *testing.T, gdb *gorm.DB, authorID uint, title string) *db.Post {
	t.Helper()
	post, err := NewPostService(gdb).Create(context.Background(), PostInput{
		Title:    title,
		Content:  "<p>Contenu de " + title + "</p>",
		Category: string(db.CategoryTerrestres),
		AuthorID: authorID,
	})
	if err != nil {
		t.Fatalf("seed post %q: %v", title, err)
	}
	return post
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
