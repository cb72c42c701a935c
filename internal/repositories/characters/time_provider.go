package characters

import "time"

//go:generate mockgen -destination=mock/mock_time_provider.go -package=mockcharacters -source=time_provider.go

// TimeProvider supplies timestamps for created/updated fields
type TimeProvider interface {
	Now() time.Time
}

type utcTimeProvider struct{}

func (utcTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
