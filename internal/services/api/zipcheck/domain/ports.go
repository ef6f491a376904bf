package domain

import "context"

// ServicePort defines the service contract for zip code lookups
type ServicePort interface {
	Check(ctx context.Context, in CheckInput) (Verdict, error)
	Inspect(ctx context.Context, up Upload) (Preview, error)
	Process(ctx context.Context, up Upload, column string) (Report, error)
}
