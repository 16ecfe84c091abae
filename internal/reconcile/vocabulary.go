package reconcile

// DefaultVocabulary is the official committee list. The server seeds it on
// first run and the maintenance CLI reconciles against it unless names are
// supplied explicitly.
var DefaultVocabulary = []string{
	"Control interno",
	"Direccion de planeacion",
	"Direccion financiera",
	"Gerencia",
	"Secretaria general y juridica",
	"Oficina de talento humano",
}
