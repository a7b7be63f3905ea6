package handler

import (
	"context"
	"sort"
	"time"

	"hotel-booking-service/internal/model"
	"hotel-booking-service/internal/repository"

	"gorm.io/gorm"
)

// In-memory repository fakes backing the handler tests.

type fakeUserRepo struct {
	users     map[uint]*model.User
	favorites map[uint]map[uint]bool
	nextID    uint

	// When set, the next Create/Update fails with it. Simulates write
	// failures the read-side checks cannot see, like a unique violation
	// from a concurrent writer.
	createErr error
	updateErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:     make(map[uint]*model.User),
		favorites: make(map[uint]map[uint]bool),
		nextID:    1,
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if f.createErr != nil {
		err := f.createErr
		f.createErr = nil
		return err
	}
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) ByID(_ context.Context, id uint) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) ByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) ByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	if f.updateErr != nil {
		err := f.updateErr
		f.updateErr = nil
		return err
	}
	if _, ok := f.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uint) error {
	if _, ok := f.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) List(_ context.Context) ([]model.User, error) {
	users := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		users = append(users, *u)
	}
	return users, nil
}

func (f *fakeUserRepo) AddFavorite(_ context.Context, userID, hotelID uint) error {
	if f.favorites[userID] == nil {
		f.favorites[userID] = make(map[uint]bool)
	}
	f.favorites[userID][hotelID] = true
	return nil
}

func (f *fakeUserRepo) RemoveFavorite(_ context.Context, userID, hotelID uint) error {
	delete(f.favorites[userID], hotelID)
	return nil
}

func (f *fakeUserRepo) Favorites(_ context.Context, userID uint) ([]model.Hotel, error) {
	var hotels []model.Hotel
	for hotelID := range f.favorites[userID] {
		hotels = append(hotels, model.Hotel{ID: hotelID})
	}
	return hotels, nil
}

func (f *fakeUserRepo) IsFavorite(_ context.Context, userID, hotelID uint) (bool, error) {
	return f.favorites[userID][hotelID], nil
}

type fakeHotelRepo struct {
	hotels   map[uint]*model.Hotel
	bookings *fakeBookingRepo
	nextID   uint
}

func newFakeHotelRepo() *fakeHotelRepo {
	return &fakeHotelRepo{hotels: make(map[uint]*model.Hotel), nextID: 1}
}

func (f *fakeHotelRepo) Create(_ context.Context, hotel *model.Hotel) error {
	hotel.ID = f.nextID
	f.nextID++
	f.hotels[hotel.ID] = hotel
	return nil
}

func (f *fakeHotelRepo) ByID(_ context.Context, id uint) (*model.Hotel, error) {
	hotel, ok := f.hotels[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return hotel, nil
}

func (f *fakeHotelRepo) Update(_ context.Context, hotel *model.Hotel) error {
	if _, ok := f.hotels[hotel.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.hotels[hotel.ID] = hotel
	return nil
}

func (f *fakeHotelRepo) DeleteCascade(_ context.Context, id uint) error {
	if _, ok := f.hotels[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.hotels, id)
	if f.bookings != nil {
		for bid, b := range f.bookings.bookings {
			if b.HotelID == id {
				delete(f.bookings.bookings, bid)
			}
		}
	}
	return nil
}

func (f *fakeHotelRepo) Search(_ context.Context, params repository.HotelSearchParams) ([]model.Hotel, int64, error) {
	var hotels []model.Hotel
	for _, h := range f.hotels {
		if params.MinStars > 0 && h.StarRating < params.MinStars {
			continue
		}
		if params.Type != "" && h.Type != params.Type {
			continue
		}
		hotels = append(hotels, *h)
	}
	return hotels, int64(len(hotels)), nil
}

func (f *fakeHotelRepo) All(_ context.Context) ([]model.Hotel, error) {
	hotels := make([]model.Hotel, 0, len(f.hotels))
	for _, h := range f.hotels {
		hotels = append(hotels, *h)
	}
	return hotels, nil
}

func (f *fakeHotelRepo) SetRatingStats(_ context.Context, hotelID uint, avg float64, count int64) error {
	hotel, ok := f.hotels[hotelID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	hotel.AverageRating = avg
	hotel.NumReviews = int(count)
	return nil
}

type fakeBookingRepo struct {
	bookings map[uint]*model.Booking
	nextID   uint
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uint]*model.Booking), nextID: 1}
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *model.Booking) error {
	booking.ID = f.nextID
	f.nextID++
	booking.CreatedAt = time.Now()
	f.bookings[booking.ID] = booking
	return nil
}

func (f *fakeBookingRepo) ByID(_ context.Context, id uint) (*model.Booking, error) {
	booking, ok := f.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return booking, nil
}

func (f *fakeBookingRepo) ByUser(_ context.Context, userID uint) ([]model.Booking, error) {
	var bookings []model.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			bookings = append(bookings, *b)
		}
	}
	return bookings, nil
}

func (f *fakeBookingRepo) ByHotel(_ context.Context, hotelID uint) ([]model.Booking, error) {
	var bookings []model.Booking
	for _, b := range f.bookings {
		if b.HotelID == hotelID {
			bookings = append(bookings, *b)
		}
	}
	return bookings, nil
}

func (f *fakeBookingRepo) All(_ context.Context) ([]model.Booking, error) {
	bookings := make([]model.Booking, 0, len(f.bookings))
	for _, b := range f.bookings {
		bookings = append(bookings, *b)
	}
	return bookings, nil
}

func (f *fakeBookingRepo) Update(_ context.Context, booking *model.Booking) error {
	if _, ok := f.bookings[booking.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.bookings[booking.ID] = booking
	return nil
}

func (f *fakeBookingRepo) Delete(_ context.Context, id uint) error {
	if _, ok := f.bookings[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.bookings, id)
	return nil
}

type fakeReviewRepo struct {
	reviews map[uint]*model.Review
	hotels  *fakeHotelRepo
	nextID  uint
}

func newFakeReviewRepo(hotels *fakeHotelRepo) *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[uint]*model.Review), hotels: hotels, nextID: 1}
}

func (f *fakeReviewRepo) Create(_ context.Context, review *model.Review) error {
	review.ID = f.nextID
	f.nextID++
	review.CreatedAt = time.Now()
	f.reviews[review.ID] = review
	return nil
}

func (f *fakeReviewRepo) ByID(_ context.Context, id uint) (*model.Review, error) {
	review, ok := f.reviews[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return review, nil
}

func (f *fakeReviewRepo) ByUserAndHotel(_ context.Context, userID, hotelID uint) (*model.Review, error) {
	for _, r := range f.reviews {
		if r.UserID == userID && r.HotelID == hotelID {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReviewRepo) ByHotel(_ context.Context, hotelID uint) ([]model.Review, error) {
	var reviews []model.Review
	for _, r := range f.reviews {
		if r.HotelID == hotelID {
			reviews = append(reviews, *r)
		}
	}
	sort.Slice(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	return reviews, nil
}

func (f *fakeReviewRepo) ByUser(_ context.Context, userID uint) ([]model.Review, error) {
	var reviews []model.Review
	for _, r := range f.reviews {
		if r.UserID == userID {
			reviews = append(reviews, *r)
		}
	}
	return reviews, nil
}

func (f *fakeReviewRepo) Update(_ context.Context, review *model.Review) error {
	if _, ok := f.reviews[review.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.reviews[review.ID] = review
	return nil
}

func (f *fakeReviewRepo) Delete(_ context.Context, id uint) error {
	if _, ok := f.reviews[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.reviews, id)
	return nil
}

func (f *fakeReviewRepo) Filter(_ context.Context, filter repository.ReviewFilter) ([]model.Review, error) {
	var reviews []model.Review
	for _, r := range f.reviews {
		if filter.HotelID != 0 && r.HotelID != filter.HotelID {
			continue
		}
		if filter.UserID != 0 && r.UserID != filter.UserID {
			continue
		}
		if filter.MinRating != 0 && r.Rating < filter.MinRating {
			continue
		}
		if filter.MaxRating != 0 && r.Rating > filter.MaxRating {
			continue
		}
		reviews = append(reviews, *r)
	}
	return reviews, nil
}

func (f *fakeReviewRepo) Average(_ context.Context, hotelID uint) (float64, int64, error) {
	var sum, count int64
	for _, r := range f.reviews {
		if r.HotelID == hotelID {
			sum += int64(r.Rating)
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

func (f *fakeReviewRepo) Stats(_ context.Context) ([]repository.HotelReviewStats, error) {
	byHotel := make(map[uint]*repository.HotelReviewStats)
	for _, r := range f.reviews {
		stats, ok := byHotel[r.HotelID]
		if !ok {
			stats = &repository.HotelReviewStats{HotelID: r.HotelID}
			if hotel, ok := f.hotels.hotels[r.HotelID]; ok {
				stats.HotelName = hotel.Name
			}
			byHotel[r.HotelID] = stats
		}
		stats.Count++
		stats.AvgRating += float64(r.Rating)
	}
	out := make([]repository.HotelReviewStats, 0, len(byHotel))
	for _, s := range byHotel {
		s.AvgRating /= float64(s.Count)
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeReviewRepo) Popular(_ context.Context) ([]repository.PopularHotel, error) {
	stats, err := f.Stats(context.Background())
	if err != nil {
		return nil, err
	}
	out := make([]repository.PopularHotel, 0, len(stats))
	for _, s := range stats {
		entry := repository.PopularHotel{
			HotelID:     s.HotelID,
			Name:        s.HotelName,
			AvgRating:   s.AvgRating,
			ReviewCount: s.Count,
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgRating != out[j].AvgRating {
			return out[i].AvgRating > out[j].AvgRating
		}
		return out[i].ReviewCount > out[j].ReviewCount
	})
	return out, nil
}

var (
	_ repository.UserRepository    = (*fakeUserRepo)(nil)
	_ repository.HotelRepository   = (*fakeHotelRepo)(nil)
	_ repository.BookingRepository = (*fakeBookingRepo)(nil)
	_ repository.ReviewRepository  = (*fakeReviewRepo)(nil)
)
