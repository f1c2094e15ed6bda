package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"campuscollab/internal/app"
	"campuscollab/internal/config"
	"campuscollab/internal/domain"
	"campuscollab/internal/pkg/logger"
	"campuscollab/internal/rating"
	"campuscollab/internal/store"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var categories = []string{"music", "programming", "languages", "math", "art"}

var titles = map[string][]string{
	"music":       {"Guitar basics", "Piano for beginners"},
	"programming": {"Go from scratch", "Intro to SQL"},
	"languages":   {"Conversational Spanish", "French pronunciation"},
	"math":        {"Calculus I tutoring", "Linear algebra help"},
	"art":         {"Figure drawing", "Watercolor techniques"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	l := logger.Setup(cfg.LogLevel, true)
	ctx := context.Background()

	st, closeStore, err := app.OpenStore(ctx, cfg)
	if err != nil {
		l.Fatal().Err(err).Msg("open store")
	}
	defer func() { _ = closeStore() }()

	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	l.Info().Msg("creating users")
	mkUser := func(email, name string, role domain.UserRole) *domain.User {
		hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		u := &domain.User{Email: email, PasswordHash: string(hash), DisplayName: name, Role: role}
		if err := st.CreateUser(ctx, u); err != nil {
			l.Fatal().Err(err).Str("email", email).Msg("create user")
		}
		return u
	}

	mkUser("admin@campuscollab.dev", "Admin", domain.RoleAdmin)

	tutors := make([]*domain.User, 0, 3)
	for i := 1; i <= 3; i++ {
		tutors = append(tutors, mkUser(fmt.Sprintf("tutor%d@campuscollab.dev", i), fmt.Sprintf("Tutor %d", i), domain.RoleTutor))
	}
	students := make([]*domain.User, 0, 4)
	for i := 1; i <= 4; i++ {
		students = append(students, mkUser(fmt.Sprintf("student%d@campuscollab.dev", i), fmt.Sprintf("Student %d", i), domain.RoleStudent))
	}

	l.Info().Msg("creating skills")
	skills := make([]*domain.Skill, 0, 10)
	for i, cat := range categories {
		for _, title := range titles[cat] {
			tutor := tutors[i%len(tutors)]
			sk := &domain.Skill{
				TutorID:     tutor.ID,
				Title:       title,
				Description: "Hands-on sessions with a fellow student.",
				Category:    cat,
				Price:       float64(10 + r.Intn(30)),
				Duration:    []int{30, 45, 60}[r.Intn(3)],
				Location:    []domain.Location{domain.LocationOnline, domain.LocationInPerson, domain.LocationHybrid}[r.Intn(3)],
				Availability: []domain.AvailabilitySlot{
					{Day: "monday", StartTime: "09:00", EndTime: "12:00"},
					{Day: "wednesday", StartTime: "14:00", EndTime: "18:00"},
					{Day: "saturday", StartTime: "10:00", EndTime: "13:00"},
				},
			}
			if err := st.CreateSkill(ctx, sk); err != nil {
				l.Fatal().Err(err).Str("title", title).Msg("create skill")
			}
			skills = append(skills, sk)
		}
	}

	l.Info().Msg("creating completed bookings and reviews")
	today := time.Now().UTC()
	sinceMonday := (int(today.Weekday()) + 6) % 7
	monday := today.AddDate(0, 0, -sinceMonday-7)
	for i, sk := range skills {
		student := students[i%len(students)]
		b := &domain.Booking{
			SkillID:    sk.ID,
			StudentID:  student.ID,
			TutorID:    sk.TutorID,
			Date:       monday.AddDate(0, 0, -7*(i/len(students))).Format(domain.DateLayout),
			StartTime:  "09:00",
			EndTime:    "10:00",
			TotalPrice: domain.TotalPrice(sk.Price, sk.Duration, 60),
			Status:     domain.BookingPending,
		}
		err := st.AtomicBooking(ctx, sk.ID, func(tx store.BookingTx) error {
			return tx.CreateBooking(ctx, b)
		})
		if err != nil {
			l.Fatal().Err(err).Msg("create booking")
		}
		if _, err := st.UpdateBookingStatus(ctx, b.ID, domain.BookingCompleted); err != nil {
			l.Fatal().Err(err).Msg("complete booking")
		}

		err = st.AtomicReview(ctx, func(tx store.ReviewTx) error {
			rv := &domain.Review{
				BookingID: b.ID,
				SkillID:   sk.ID,
				StudentID: student.ID,
				TutorID:   sk.TutorID,
				Rating:    3 + r.Intn(3),
				Comment:   "Clear explanations and good pacing.",
				Upvotes:   []int64{},
				Downvotes: []int64{},
			}
			if err := tx.CreateReview(ctx, rv); err != nil {
				return err
			}
			return rating.Recompute(ctx, tx, rating.Skill(sk.ID), rating.User(sk.TutorID))
		})
		if err != nil {
			l.Fatal().Err(err).Msg("create review")
		}
	}

	l.Info().
		Int("tutors", len(tutors)).
		Int("students", len(students)).
		Int("skills", len(skills)).
		Msg("seed completed, every account uses password123")
}
