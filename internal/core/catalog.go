package core

import "fmt"

// Units lists the measurement units a product may use.
var Units = []string{"KG", "UN", "L", "CX", "FD", "PCT", "GL", "BD"}

var categories = []Category{
	{ID: "c1", Name: "MERCEARIA"},
	{ID: "c2", Name: "CARAMUJO"},
	{ID: "c3", Name: "PROTEINAS AVES"},
	{ID: "c4", Name: "PROTEINA BOVINO"},
	{ID: "c5", Name: "PEIXARIA"},
	{ID: "c6", Name: "PROTEINA SUÍNOS"},
	{ID: "c7", Name: "QUEIJOS & FRIOS"},
	{ID: "c8", Name: "MASSAS"},
	{ID: "c9", Name: "CARVAO"},
	{ID: "c10", Name: "HORTFRUT"},
	{ID: "c11", Name: "CONGELADOS"},
	{ID: "c12", Name: "PROTUDOS JAPONES SUSHI"},
	{ID: "c13", Name: "DESCARTAVÉIS/ DIVERSOS"},
	{ID: "c14", Name: "MATERIAIS DE LIMPEZA"},
	{ID: "c15", Name: "ESCRITORIO"},
	{ID: "c16", Name: "BEBIDAS GELADAS"},
	{ID: "c17", Name: "CHOPP"},
	{ID: "c18", Name: "BEBIDAS QUENTES/DESTILADOS"},
	{ID: "c19", Name: "GAS"},
	{ID: "c20", Name: "MANUTENÇAO"},
	{ID: "c21", Name: "COPOS/PRATOS"},
	{ID: "c22", Name: "UNIFORMES"},
	{ID: "c23", Name: "SORVETE"},
	{ID: "c24", Name: "POLPAS E SUCO"},
	{ID: "c25", Name: "SALGADOS"},
}

var seedSupplierNames = []string{
	"AJES", "ALVES", "AMBEV", "BMG FOODS", "BRASAL", "BRILHO INOX", "CANAL",
	"CARAMUJO", "CARVÃO TROPICAL", "CIDADE", "DAMASCO", "DE MARCHI",
	"DEL MAIPO", "DELLY'S", "ELÉTRICA BURITI", "EUROBRAS", "FRIPREMIUM",
	"GARDA", "GELO TOP", "GERMANA", "GOTA GAS", "HP ELÉTRICA",
	"JC DISTRIBUIÇÃO", "LGA", "LENI ALVES", "LOJA DO AÇOUGUEIRO", "MACHADO",
	"MANDIOCA AMARELA", "MR CARNES", "NACIONAL GRÁFICA", "POTIGUAR SALGADOS",
	"RESTAURANTEIRO", "REFRIUS", "RSANTOS", "S.O.S. DESENTUPIDORA", "SEVEN",
	"SORVE MILK", "SOLLI ATACADISTA", "SUPER GAS BRAS", "SWEET", "TOTAL SERV",
	"WESLEY", "WL",
}

// Categories returns a copy of the fixed category list.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// CategoryName resolves id, or returns "" when unknown.
func CategoryName(id string) string {
	for _, c := range categories {
		if c.ID == id {
			return c.Name
		}
	}
	return ""
}

// SeedSuppliers is the supplier list used when nothing has been stored yet.
func SeedSuppliers() []Supplier {
	out := make([]Supplier, 0, len(seedSupplierNames))
	for i, name := range seedSupplierNames {
		out = append(out, Supplier{ID: fmt.Sprintf("s-%d", i), Name: name})
	}
	return out
}

// ValidUnit reports whether u is one of Units.
func ValidUnit(u string) bool {
	for _, v := range Units {
		if v == u {
			return true
		}
	}
	return false
}
