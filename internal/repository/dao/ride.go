package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrRideNotFound     = errors.New("ride not found")
	ErrNoSeatsAvailable = errors.New("no seats available")
	ErrAlreadyJoined    = errors.New("student already joined this ride")
	ErrNotAMember       = errors.New("student is not a member of this ride")
)

type Ride struct {
	ID             uint    `gorm:"primaryKey"`
	FromLoc        string  `gorm:"not null"`
	ToLoc          string  `gorm:"not null"`
	Price          float64 `gorm:"not null"`
	SeatsAvailable int     `gorm:"not null;check:seats_available >= 0"`
	Capacity       int     `gorm:"not null"`
	ArrivalTime    time.Time
	Service        string
	CreatedBy      uint `gorm:"not null;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RideMembership is one claimed seat. Its primary key is what makes a
// duplicate join fail as a distinguishable conflict instead of a second row.
type RideMembership struct {
	RideID    uint `gorm:"primaryKey;autoIncrement:false"`
	StudentID uint `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time
}

func (RideMembership) TableName() string {
	return "ride_memberships"
}

type RideDAO struct {
	db *gorm.DB
}

func NewRideDAO(db *gorm.DB) *RideDAO {
	return &RideDAO{
		db: db,
	}
}

// WithTx runs fn inside one database transaction. The RideDAO handed to fn is
// bound to that transaction; every write either commits with it or rolls back
// when fn returns an error. Nested calls are not supported.
func (d *RideDAO) WithTx(ctx context.Context, fn func(tx *RideDAO) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&RideDAO{db: tx})
	})
}

func (d *RideDAO) Insert(ctx context.Context, ride Ride) (Ride, error) {
	result := d.db.WithContext(ctx).Create(&ride)
	if result.Error != nil {
		return Ride{}, result.Error
	}

	return ride, nil
}

func (d *RideDAO) FindByID(ctx context.Context, id uint) (Ride, error) {
	var ride Ride

	result := d.db.WithContext(ctx).First(&ride, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Ride{}, ErrRideNotFound
		}

		return Ride{}, result.Error
	}

	return ride, nil
}

func (d *RideDAO) Find(ctx context.Context, fromLoc, toLoc, service string) ([]Ride, error) {
	query := d.db.WithContext(ctx).Model(&Ride{})
	if fromLoc != "" {
		query = query.Where("from_loc = ?", fromLoc)
	}
	if toLoc != "" {
		query = query.Where("to_loc = ?", toLoc)
	}
	if service != "" {
		query = query.Where("service = ?", service)
	}

	var rides []Ride
	if err := query.Order("arrival_time").Find(&rides).Error; err != nil {
		return nil, err
	}

	return rides, nil
}

// DecrementSeats takes one seat if any remain. The predicate and the mutation
// are a single UPDATE statement, so two concurrent joins can never both win
// the last seat regardless of isolation level. Returns false when the ride is
// missing or already full.
func (d *RideDAO) DecrementSeats(ctx context.Context, rideID uint) (bool, error) {
	result := d.db.WithContext(ctx).
		Model(&Ride{}).
		Where("id = ? AND seats_available > 0", rideID).
		UpdateColumn("seats_available", gorm.Expr("seats_available - 1"))
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// IncrementSeats gives a seat back. It is only ever issued after a membership
// row was deleted in the same transaction, so it cannot exceed the capacity.
func (d *RideDAO) IncrementSeats(ctx context.Context, rideID uint) error {
	result := d.db.WithContext(ctx).
		Model(&Ride{}).
		Where("id = ?", rideID).
		UpdateColumn("seats_available", gorm.Expr("seats_available + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRideNotFound
	}

	return nil
}

func (d *RideDAO) InsertMembership(ctx context.Context, rideID, studentID uint) error {
	membership := RideMembership{RideID: rideID, StudentID: studentID}

	result := d.db.WithContext(ctx).Create(&membership)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.ConstraintName, "ride_memberships") {
			return ErrAlreadyJoined
		}

		return result.Error
	}

	return nil
}

func (d *RideDAO) DeleteMembership(ctx context.Context, rideID, studentID uint) error {
	result := d.db.WithContext(ctx).
		Where("ride_id = ? AND student_id = ?", rideID, studentID).
		Delete(&RideMembership{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotAMember
	}

	return nil
}

func (d *RideDAO) FindPassengerIDs(ctx context.Context, rideID uint) ([]uint, error) {
	var studentIDs []uint

	result := d.db.WithContext(ctx).
		Model(&RideMembership{}).
		Where("ride_id = ?", rideID).
		Order("created_at").
		Pluck("student_id", &studentIDs)
	if result.Error != nil {
		return nil, result.Error
	}

	return studentIDs, nil
}

// Delete removes the ride and cascades its memberships.
func (d *RideDAO) Delete(ctx context.Context, rideID uint) error {
	if err := d.db.WithContext(ctx).
		Where("ride_id = ?", rideID).
		Delete(&RideMembership{}).Error; err != nil {
		return err
	}

	result := d.db.WithContext(ctx).Delete(&Ride{}, rideID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRideNotFound
	}

	return nil
}
