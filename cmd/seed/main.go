// Command seed populates a database with a small multi-site facility:
// three sites with five zones each, a set of client users and one vehicle
// per client, spread across the category enumeration.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ArtDaSak/ParqueaderosMultisede/internal/config"
	"github.com/ArtDaSak/ParqueaderosMultisede/internal/domain"
	"github.com/ArtDaSak/ParqueaderosMultisede/internal/logging"
	"github.com/ArtDaSak/ParqueaderosMultisede/migrations"
)

const (
	zonesPerSite = 5
	clientCount  = 15
)

var sites = []struct {
	name, city, address string
}{
	{"Central Park", "Bogotá", "Av. Siempre Viva 123"},
	{"Occidente", "Medellín", "Calle 45 #67-89"},
	{"Costa Azul", "Cartagena", "Carrera 3 #21-10"},
}

var firstNames = []string{"Ana", "Luis", "Carla", "David", "Sofía", "Juan", "María", "Andrés", "Laura", "Carlos", "Valentina", "Diego", "Camila", "Miguel", "Lucía"}
var lastNames = []string{"Gómez", "Pérez", "Rodríguez", "González", "López", "Martínez", "Díaz", "Hernández", "Morales", "Torres"}

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.Development)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to db")
	}
	defer pool.Close()

	if err := migrations.Apply(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("apply migrations")
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	categories := domain.Categories()

	for _, site := range sites {
		var siteID string
		err := pool.QueryRow(ctx,
			`INSERT INTO sites (name, city, address) VALUES ($1, $2, $3) RETURNING id`,
			site.name, site.city, site.address,
		).Scan(&siteID)
		if err != nil {
			logger.Fatal().Err(err).Str("site", site.name).Msg("insert site")
		}

		for i := 1; i <= zonesPerSite; i++ {
			capacity := 10 + rng.Intn(41)
			tariff := decimal.NewFromFloat(1 + rng.Float64()*4).Round(2)
			permitted := randomCategories(rng, categories)

			_, err := pool.Exec(ctx,
				`INSERT INTO zones (site_id, name, capacity, available, hourly_tariff, permitted_categories)
				 VALUES ($1, $2, $3, $3, $4, $5)`,
				siteID, fmt.Sprintf("Zona %d", i), capacity, tariff, permitted,
			)
			if err != nil {
				logger.Fatal().Err(err).Str("site", site.name).Int("zone", i).Msg("insert zone")
			}
		}
		logger.Info().Str("site", site.name).Int("zones", zonesPerSite).Msg("site seeded")
	}

	for i := 0; i < clientCount; i++ {
		name := firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))]
		var ownerID string
		err := pool.QueryRow(ctx,
			`INSERT INTO users (full_name, document, email, role)
			 VALUES ($1, $2, $3, 'client') RETURNING id`,
			name, fmt.Sprintf("CLI%04d", 2000+i), fmt.Sprintf("cliente%d@mail.com", i+1),
		).Scan(&ownerID)
		if err != nil {
			logger.Fatal().Err(err).Msg("insert user")
		}

		category := categories[rng.Intn(len(categories))]
		_, err = pool.Exec(ctx,
			`INSERT INTO vehicles (plate, category, owner_id) VALUES ($1, $2, $3)`,
			fmt.Sprintf("%c%c%c%03d", 'A'+rng.Intn(26), 'A'+rng.Intn(26), 'A'+rng.Intn(26), rng.Intn(1000)),
			string(category), ownerID,
		)
		if err != nil {
			logger.Fatal().Err(err).Msg("insert vehicle")
		}
	}

	logger.Info().Int("clients", clientCount).Msg("seed complete")
}

// randomCategories keeps each category with 75% probability, never
// returning an empty set (an empty set would mean unrestricted, which is a
// valid zone but a poor test fixture).
func randomCategories(rng *rand.Rand, all []domain.VehicleCategory) []string {
	out := make([]string, 0, len(all))
	for _, c := range all {
		if rng.Float64() < 0.75 {
			out = append(out, string(c))
		}
	}
	if len(out) == 0 {
		out = append(out, string(all[rng.Intn(len(all))]))
	}
	return out
}
