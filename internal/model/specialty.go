package model

// Specialty is a value/label pair from the fixed catalog of medical
// specialties a doctor can be registered under.
type Specialty struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var Specialties = []Specialty{
	{Value: "alergologia", Label: "Alergologia"},
	{Value: "anestesiologia", Label: "Anestesiologia"},
	{Value: "angiologia", Label: "Angiologia"},
	{Value: "cardiologia", Label: "Cardiologia"},
	{Value: "cirurgia_geral", Label: "Cirurgia Geral"},
	{Value: "clinica_geral", Label: "Clínica Geral"},
	{Value: "dermatologia", Label: "Dermatologia"},
	{Value: "endocrinologia", Label: "Endocrinologia"},
	{Value: "gastroenterologia", Label: "Gastroenterologia"},
	{Value: "geriatria", Label: "Geriatria"},
	{Value: "ginecologia", Label: "Ginecologia"},
	{Value: "hematologia", Label: "Hematologia"},
	{Value: "infectologia", Label: "Infectologia"},
	{Value: "nefrologia", Label: "Nefrologia"},
	{Value: "neurologia", Label: "Neurologia"},
	{Value: "oftalmologia", Label: "Oftalmologia"},
	{Value: "oncologia", Label: "Oncologia"},
	{Value: "ortopedia", Label: "Ortopedia"},
	{Value: "otorrinolaringologia", Label: "Otorrinolaringologia"},
	{Value: "pediatria", Label: "Pediatria"},
	{Value: "pneumologia", Label: "Pneumologia"},
	{Value: "psiquiatria", Label: "Psiquiatria"},
	{Value: "reumatologia", Label: "Reumatologia"},
	{Value: "urologia", Label: "Urologia"},
}

var specialtyValues = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Specialties))
	for _, s := range Specialties {
		m[s.Value] = struct{}{}
	}
	return m
}()

// IsKnownSpecialty reports whether code is part of the specialty catalog.
func IsKnownSpecialty(code string) bool {
	_, ok := specialtyValues[code]
	return ok
}
