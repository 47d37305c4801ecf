package units

// Unit: единица измерения (кг, мешок, штука, литр).
type Unit struct {
	ID    int64  `db:"id"`
	Code  string `db:"code"`
	Label string `db:"libelle"`
}
