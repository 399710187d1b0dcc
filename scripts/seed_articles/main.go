package main

import (
	"context"
	"errors"

	"github.com/animania/internal/config"
	"github.com/animania/internal/db"
	"github.com/animania/internal/logger"
	"github.com/animania/internal/service"
	"gorm.io/gorm"
)

type seedArticle struct {
	Title    string
	Content  string
	Category db.Category
	Tags     []string
	Featured bool
}

var seedArticles = []seedArticle{
	{
		Title:    "Le lion, roi de la savane",
		Content:  "## Un prédateur social\n\nLe lion vit en **troupe** composée de femelles apparentées et de quelques mâles.",
		Category: db.CategoryTerrestres,
		Tags:     []string{"savane", "félins"},
		Featured: true,
	},
	{
		Title:    "L'éléphant d'Afrique",
		Content:  "Le plus grand animal terrestre communique par infrasons sur plusieurs kilomètres.",
		Category: db.CategoryTerrestres,
		Tags:     []string{"savane", "mammifères"},
	},
	{
		Title:    "Le grand requin blanc",
		Content:  "## Chasseur des océans\n\nIl détecte une goutte de sang diluée dans des millions de litres d'eau.",
		Category: db.CategoryMarins,
		Tags:     []string{"océan", "prédateurs"},
		Featured: true,
	},
	{
		Title:    "La tortue luth",
		Content:  "Elle parcourt des milliers de kilomètres pour pondre sur sa plage natale.",
		Category: db.CategoryMarins,
		Tags:     []string{"océan", "reptiles"},
	},
	{
		Title:    "Le faucon pèlerin",
		Content:  "En piqué, il dépasse les **300 km/h**, ce qui en fait l'animal le plus rapide du monde.",
		Category: db.CategoryAeriens,
		Tags:     []string{"rapaces"},
	},
	{
		Title:    "Le colibri",
		Content:  "Ses ailes battent jusqu'à 80 fois par seconde et il peut voler en arrière.",
		Category: db.CategoryAeriens,
		Tags:     []string{"oiseaux"},
	},
	{
		Title:    "La loutre d'Europe",
		Content:  "Discrète, elle signale son territoire par des épreintes déposées sur les rochers.",
		Category: db.CategoryEauDouce,
		Tags:     []string{"rivières", "mammifères"},
	},
	{
		Title:    "Le brochet",
		Content:  "Ce carnassier guette ses proies immobile parmi les herbiers.",
		Category: db.CategoryEauDouce,
		Tags:     []string{"poissons", "rivières"},
	},
}

const (
	seedAuthorEmail    = "redaction@animania.local"
	seedAuthorPassword = "animania-demo"
)

// 生成本地开发用的示例文章
func main() {
	log := logger.New("info", true)

	cfg, err := config.Load()
	if err != nil && !errors.Is(err, config.ErrMissingJWTSecret) {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	gdb, err := db.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close(gdb)

	created, err := seed(context.Background(), gdb)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed articles")
	}
	log.Info().Int("created", created).Str("author", seedAuthorEmail).Msg("seed complete")
}

// seed creates the demo author if needed and inserts every article whose
// title is not present yet. It returns the number of posts created.
func seed(ctx context.Context, gdb *gorm.DB) (int, error) {
	users := service.NewUserService(gdb)
	author, err := users.FindByEmail(ctx, seedAuthorEmail)
	if errors.Is(err, service.ErrUserNotFound) {
		author, err = users.Register(ctx, service.RegisterInput{
			Name:     "Rédaction Animania",
			Email:    seedAuthorEmail,
			Password: seedAuthorPassword,
		})
	}
	if err != nil {
		return 0, err
	}

	posts := service.NewPostService(gdb)
	created := 0
	for _, article := range seedArticles {
		var count int64
		if err := gdb.WithContext(ctx).Model(&db.Post{}).Where("title = ?", article.Title).Count(&count).Error; err != nil {
			return created, err
		}
		if count > 0 {
			continue
		}

		post, err := posts.Create(ctx, service.PostInput{
			Title:         article.Title,
			Content:       article.Content,
			ContentFormat: service.ContentFormatMarkdown,
			Category:      string(article.Category),
			Tags:          article.Tags,
			AuthorID:      author.ID,
		})
		if err != nil {
			return created, err
		}
		if article.Featured {
			if _, err := posts.SetFeatured(ctx, post.ID, true); err != nil {
				return created, err
			}
		}
		created++
	}
	return created, nil
}
