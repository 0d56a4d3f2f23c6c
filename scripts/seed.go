package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/zatekoja/citypulse-concierge/internal/domain/entities"
	"github.com/zatekoja/citypulse-concierge/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/citypulse-concierge/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	s := &seeder{client: pgClient, db: goqu.New("postgres", pgClient.DB())}
	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				answer_cache,
				vote_tallies,
				menu_items,
				offers,
				venues
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	now := time.Now()

	// 1. Seed venues
	whislers := s.venue(ctx, &entities.Venue{
		ID: uuid.New().String(), Market: "austin", Name: "Whisler's",
		Neighborhood: "East Cesar Chavez", Address: "1816 E 6th St, Austin, TX 78702",
		PhoneNumber: "(512) 480-0781", Website: "https://whislersatx.com",
		Cuisine: "cocktail bar", PriceRange: "$$", Rating: 4.6,
		Tags: []string{"bar", "cocktails", "patio"}, VibeTags: []string{"moody", "date night"},
		SignatureItems: []string{"mezcal margarita"},
		Hours: entities.WeeklyHours{
			"monday": {Open: "16:00", Close: "00:00"}, "tuesday": {Open: "16:00", Close: "00:00"},
			"wednesday": {Open: "16:00", Close: "00:00"}, "thursday": {Open: "16:00", Close: "00:00"},
			"friday": {Open: "16:00", Close: "02:00"}, "saturday": {Open: "16:00", Close: "02:00"},
			"sunday": {Open: "16:00", Close: "00:00"},
		},
		IsActive: true, CreatedAt: now, UpdatedAt: now,
	})

	oddDuck := s.venue(ctx, &entities.Venue{
		ID: uuid.New().String(), Market: "austin", Name: "Odd Duck",
		Neighborhood: "South Lamar", Address: "1201 S Lamar Blvd, Austin, TX 78704",
		PhoneNumber: "(512) 433-6521", Website: "https://oddduckaustin.com",
		Cuisine: "farm to table", PriceRange: "$$$", Rating: 4.7,
		Tags: []string{"dinner", "brunch"}, VibeTags: []string{"lively", "local favorite"},
		SignatureItems: []string{"pork belly slider"},
		Hours: entities.WeeklyHours{
			"tuesday": {Open: "17:00", Close: "22:00"}, "wednesday": {Open: "17:00", Close: "22:00"},
			"thursday": {Open: "17:00", Close: "22:00"}, "friday": {Open: "17:00", Close: "23:00"},
			"saturday": {Open: "10:00", Close: "23:00"}, "sunday": {Open: "10:00", Close: "21:00"},
		},
		IsActive: true, CreatedAt: now, UpdatedAt: now,
	})

	via313 := s.venue(ctx, &entities.Venue{
		ID: uuid.New().String(), Market: "austin", Name: "Via 313",
		Neighborhood: "East Side", Address: "1111 E 6th St, Austin, TX 78702",
		Website: "https://via313.com",
		Cuisine: "pizza", PriceRange: "$$", Rating: 4.5,
		Tags: []string{"dinner", "pizza"}, VibeTags: []string{"casual"},
		SignatureItems: []string{"the Detroiter"},
		Hours: entities.WeeklyHours{
			"monday": {Open: "11:00", Close: "22:00"}, "tuesday": {Open: "11:00", Close: "22:00"},
			"wednesday": {Open: "11:00", Close: "22:00"}, "thursday": {Open: "11:00", Close: "22:00"},
			"friday": {Open: "11:00", Close: "23:00"}, "saturday": {Open: "11:00", Close: "23:00"},
			"sunday": {Open: "11:00", Close: "22:00"},
		},
		IsActive: true, CreatedAt: now, UpdatedAt: now,
	})

	pinewood := s.venue(ctx, &entities.Venue{
		ID: uuid.New().String(), Market: "nashville", Name: "Pinewood Social",
		Neighborhood: "SoBro", Address: "33 Peabody St, Nashville, TN 37210",
		PhoneNumber: "(615) 751-8111", Website: "https://pinewoodsocial.com",
		Cuisine: "american", PriceRange: "$$", Rating: 4.4,
		Tags: []string{"brunch", "dinner", "bar"}, VibeTags: []string{"social", "bowling"},
		SignatureItems: []string{"hot chicken sandwich"},
		Hours: entities.WeeklyHours{
			"monday": {Open: "07:00", Close: "23:00"}, "tuesday": {Open: "07:00", Close: "23:00"},
			"wednesday": {Open: "07:00", Close: "23:00"}, "thursday": {Open: "07:00", Close: "23:00"},
			"friday": {Open: "07:00", Close: "01:00"}, "saturday": {Open: "09:00", Close: "01:00"},
			"sunday": {Open: "09:00", Close: "23:00"},
		},
		IsActive: true, CreatedAt: now, UpdatedAt: now,
	})

	// 2. Seed offers
	nextFriday := now.AddDate(0, 0, (5-int(now.Weekday())+7)%7)
	s.offer(ctx, &entities.TimeWindowRecord{
		ID: uuid.New().String(), VenueID: whislers, Market: "austin",
		Kind: entities.OfferKindHappyHour, Title: "Happy Hour",
		Weekdays:  []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
		StartTime: "16:00", EndTime: "19:00", DealText: "$2 off all cocktails, half-price mezcal",
	})
	s.offer(ctx, &entities.TimeWindowRecord{
		ID: uuid.New().String(), VenueID: via313, Market: "austin",
		Kind: entities.OfferKindSpecial, Title: "Slice Night",
		Weekdays:  []string{"tuesday"},
		StartTime: "17:00", EndTime: "21:00", DealText: "$4 slices at the bar",
	})
	s.offer(ctx, &entities.TimeWindowRecord{
		ID: uuid.New().String(), VenueID: whislers, Market: "austin",
		Kind: entities.OfferKindEvent, Title: "Vinyl Night",
		StartDate: &nextFriday, EndDate: &nextFriday,
		StartTime: "20:00", EndTime: "23:00",
	})
	s.offer(ctx, &entities.TimeWindowRecord{
		ID: uuid.New().String(), VenueID: pinewood, Market: "nashville",
		Kind: entities.OfferKindHappyHour, Title: "After Work Happy Hour",
		Weekdays:  []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
		StartTime: "15:00", EndTime: "18:00", DealText: "$6 frozen drinks, discounted oysters",
	})

	// 3. Seed menu items
	s.menuItem(ctx, via313, "The Detroiter", "pizza", 18.50, true)
	s.menuItem(ctx, via313, "The Cadillac", "pizza", 19.00, false)
	s.menuItem(ctx, oddDuck, "Pork Belly Slider", "small plates", 14.00, true)
	s.menuItem(ctx, pinewood, "Hot Chicken Sandwich", "mains", 16.00, true)

	// 4. Seed vote tallies for the current month
	month := now.Format("2006-01")
	s.votes(ctx, via313, month, 128)
	s.votes(ctx, oddDuck, month, 94)
	s.votes(ctx, whislers, month, 87)
	s.votes(ctx, pinewood, month, 61)

	log.Println("Seeding complete")
}

type seeder struct {
	client *postgres.Client
	db     *goqu.Database
}

func (s *seeder) venue(ctx context.Context, v *entities.Venue) string {
	hours, err := json.Marshal(v.Hours)
	if err != nil {
		log.Fatalf("Failed to marshal hours for %s: %v", v.Name, err)
	}

	query, args, err := s.db.Insert("venues").Rows(goqu.Record{
		"id": v.ID, "market": v.Market, "name": v.Name,
		"neighborhood": v.Neighborhood, "address": v.Address,
		"phone_number": v.PhoneNumber, "website": v.Website,
		"cuisine": v.Cuisine, "price_range": v.PriceRange, "rating": v.Rating,
		"tags": pq.Array(v.Tags), "vibe_tags": pq.Array(v.VibeTags),
		"signature_items": pq.Array(v.SignatureItems), "hours": string(hours),
		"is_active": v.IsActive, "created_at": v.CreatedAt, "updated_at": v.UpdatedAt,
	}).ToSQL()
	if err != nil {
		log.Fatalf("Failed to build venue insert for %s: %v", v.Name, err)
	}
	if _, err := s.client.DB().ExecContext(ctx, query, args...); err != nil {
		log.Printf("Failed to insert venue %s: %v", v.Name, err)
	}
	return v.ID
}

func (s *seeder) offer(ctx context.Context, o *entities.TimeWindowRecord) {
	weekdays := o.Weekdays
	if weekdays == nil {
		weekdays = []string{}
	}
	record := goqu.Record{
		"id": o.ID, "venue_id": o.VenueID, "market": o.Market,
		"kind": string(o.Kind), "title": o.Title, "description": o.Description,
		"weekdays": pq.Array(weekdays), "start_date": o.StartDate, "end_date": o.EndDate,
		"start_time": o.StartTime, "end_time": o.EndTime, "deal_text": o.DealText,
	}
	query, args, err := s.db.Insert("offers").Rows(record).ToSQL()
	if err != nil {
		log.Fatalf("Failed to build offer insert for %s: %v", o.Title, err)
	}
	if _, err := s.client.DB().ExecContext(ctx, query, args...); err != nil {
		log.Printf("Failed to insert offer %s: %v", o.Title, err)
	}
}

func (s *seeder) menuItem(ctx context.Context, venueID, name, category string, price float64, signature bool) {
	query, args, err := s.db.Insert("menu_items").Rows(goqu.Record{
		"id": uuid.New().String(), "venue_id": venueID, "name": name,
		"category": category, "price": price, "is_signature": signature,
	}).ToSQL()
	if err != nil {
		log.Fatalf("Failed to build menu insert for %s: %v", name, err)
	}
	if _, err := s.client.DB().ExecContext(ctx, query, args...); err != nil {
		log.Printf("Failed to insert menu item %s: %v", name, err)
	}
}

func (s *seeder) votes(ctx context.Context, venueID, month string, votes int) {
	query, args, err := s.db.Insert("vote_tallies").Rows(goqu.Record{
		"venue_id": venueID, "month": month, "votes": votes,
	}).ToSQL()
	if err != nil {
		log.Fatalf("Failed to build vote insert: %v", err)
	}
	if _, err := s.client.DB().ExecContext(ctx, query, args...); err != nil {
		log.Printf("Failed to insert votes for venue %s: %v", venueID, err)
	}
}
