package dto

import "time"

type AppointmentListDTO struct {
	ID               uint       `json:"id"`
	Date             string     `json:"date"`
	Time             string     `json:"time"`
	Status           string     `json:"status"`
	Origin           string     `json:"origin"`
	Price            *float64   `json:"price"`
	ConcludedAt      *time.Time `json:"concluded_at"`
	ClientName       string     `json:"client_name"`
	ClientPhone      string     `json:"client_phone"`
	ServiceName      string     `json:"service_name"`
	ProfessionalName string     `json:"professional_name"`
}
