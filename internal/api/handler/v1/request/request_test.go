package request_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/uniclubs/campus-api/internal/api/handler/v1/request"
)

func TestCreateRideRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     request.CreateRideRequest
		wantErr bool
	}{
		{
			name: "valid",
			req: request.CreateRideRequest{
				FromLoc:        "North Campus",
				ToLoc:          "City Center",
				Price:          4.50,
				SeatsAvailable: 3,
				Service:        "evening",
			},
		},
		{
			name: "missing origin",
			req: request.CreateRideRequest{
				ToLoc:          "City Center",
				SeatsAvailable: 3,
				Service:        "evening",
			},
			wantErr: true,
		},
		{
			name: "zero seats",
			req: request.CreateRideRequest{
				FromLoc: "North Campus",
				ToLoc:   "City Center",
				Service: "evening",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRateEventRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     request.RateEventRequest
		wantErr bool
	}{
		{
			name: "valid",
			req:  request.RateEventRequest{EventID: 1, Rating: 4, Feedback: "great"},
		},
		{
			name: "zero rating allowed",
			req:  request.RateEventRequest{EventID: 1, Rating: 0},
		},
		{
			name:    "rating above five",
			req:     request.RateEventRequest{EventID: 1, Rating: 6},
			wantErr: true,
		},
		{
			name:    "missing event",
			req:     request.RateEventRequest{Rating: 3},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIssueCertificateRequest_Validate(t *testing.T) {
	valid := request.IssueCertificateRequest{
		EventID:        1,
		StudentID:      42,
		CertificateURL: "https://certs.example/42.pdf",
	}
	assert.NoError(t, valid.Validate())

	badURL := valid
	badURL.CertificateURL = "not a url"
	assert.Error(t, badURL.Validate())

	noStudent := valid
	noStudent.StudentID = 0
	assert.Error(t, noStudent.Validate())
}

func TestRegisterTicketRequest_Validate(t *testing.T) {
	assert.NoError(t, (&request.RegisterTicketRequest{EventID: 1}).Validate())
	assert.Error(t, (&request.RegisterTicketRequest{}).Validate())
}
