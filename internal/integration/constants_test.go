package integration_test

import "github.com/google/uuid"

const (
	TestUserName     = "Jordan Doe"
	TestUserEmail    = "test@example.com"
	TestUserPassword = "Test123!@#"
)

// Fixed identifiers matching testdata/base_up.sql.
var (
	TestAdminId       = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	TestMovieId       = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	TestAuditoriumId  = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	TestAuditorium2Id = uuid.MustParse("55555555-5555-5555-5555-555555555555")
	TestScreeningId   = uuid.MustParse("44444444-4444-4444-4444-444444444444")

	TestSeatA1 = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")
	TestSeatA2 = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000002")
	TestSeatB1 = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000003")
	TestSeatB2 = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000004")
)
