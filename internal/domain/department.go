package domain

// Department is an organizational routing target for tickets.
// The four departments are reference data seeded at startup.
type Department struct {
	ID   int64
	Name string
}

// SeedDepartments lists the fixed departments in seed order. The first
// entry doubles as the advisor's fallback category.
var SeedDepartments = []string{
	"Bilgi Islem",
	"Yapi Isleri",
	"Ogrenci Isleri",
	"Akademik Danismanlik",
}
