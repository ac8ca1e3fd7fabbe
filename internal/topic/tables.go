package topic

// All phrases in these tables are pre-normalized: lowercase, no diacritics
// (see internal/textnorm). "futbol" matches "Fútbol" after folding.

// categoryRule maps a source-declared category to a label when the
// normalized category contains any of the listed substrings.
type categoryRule struct {
	subs  []string
	label Label
}

// categoryRules is checked in order; Sports goes first so a category like
// "Fútbol Internacional" resolves to Sports, not World.
var categoryRules = []categoryRule{
	{[]string{"deport", "futbol", "basquet", "tenis", "rugby", "atletismo", "ciclismo", "automovilismo", "surf"}, Sports},
	{[]string{"politic", "president", "parlament", "senado", "diputad", "eleccion", "gobiern"}, Politics},
	{[]string{"econom", "inflacion", "fiscal"}, Economy},
	{[]string{"negocio", "empresa", "business", "comercio", "industria", "agro"}, Business},
	{[]string{"mercado", "bolsa", "finanz", "dolar", "divisas", "bursatil"}, Markets},
	{[]string{"internacional", "mundo", "world", "exterior", "global"}, World},
	{[]string{"sociedad", "social", "comunidad"}, Society},
	{[]string{"educacion", "universidad", "escuela", "liceo", "ensenanza"}, Education},
	{[]string{"salud", "medicina", "sanidad", "sanitaria"}, Health},
	{[]string{"ciencia", "cientif", "investigacion"}, Science},
	{[]string{"tecnologia", "tecnolog", "digital", "informatica", "innovacion"}, Technology},
	{[]string{"energia", "combustible", "petroleo", "electricidad"}, Energy},
	{[]string{"ambiente", "ambiental", "clima", "ecologia"}, Environment},
	{[]string{"policial", "seguridad", "crimen", "sucesos", "judicial"}, Security},
	{[]string{"cultura", "espectaculo", "musica", "cine", "teatro", "arte", "carnaval"}, Culture},
}

// scoredLabels fixes the iteration order of the scoring fallback.
var scoredLabels = []Label{
	Politics, Economy, Business, Markets, World, Society, Education,
	Health, Science, Technology, Energy, Environment, Security, Culture,
	Sports,
}

// ruleSet is the weighted vocabulary for one label. Strong phrases are
// near-unambiguous, keywords are supporting evidence, negatives subtract
// when the phrase points away from the label.
type ruleSet struct {
	strong   map[string]float64
	keywords map[string]float64
	negative map[string]float64
}

var scoring = map[Label]ruleSet{
	Politics: {
		strong: map[string]float64{
			"presidente": 3, "parlamento": 3, "senado": 3, "diputados": 3,
			"decreto": 3, "elecciones": 3, "frente amplio": 3,
			"partido nacional": 3, "partido colorado": 3,
		},
		keywords: map[string]float64{
			"gobierno": 2, "ministro": 2, "ministerio": 1.5, "oposicion": 1.5,
			"coalicion": 1.5, "ley": 1, "votacion": 1.5, "candidato": 1.5,
			"intendente": 1.5, "campana": 1, "referendum": 2, "plebiscito": 2,
		},
	},
	Economy: {
		strong: map[string]float64{
			"inflacion": 3, "deficit fiscal": 3, "banco central": 3, "ipc": 2.5,
		},
		keywords: map[string]float64{
			"economia": 2, "pib": 2, "precios": 1, "salarios": 1.5,
			"impuestos": 1.5, "tarifas": 1, "consumo": 1, "deuda": 1.5,
			"recaudacion": 1.5, "desempleo": 2, "crecimiento": 1,
		},
	},
	Business: {
		strong: map[string]float64{
			"camara de comercio": 3, "zona franca": 3,
		},
		keywords: map[string]float64{
			"empresa": 1.5, "empresas": 2, "negocios": 2, "inversion": 1.5,
			"startup": 2, "exportaciones": 1.5, "importaciones": 1.5,
			"comercio": 1.5, "industria": 1.5, "facturacion": 1.5,
			"frigorifico": 2, "agroindustria": 2,
		},
	},
	Markets: {
		strong: map[string]float64{
			"wall street": 3, "bolsa de valores": 3, "riesgo pais": 3,
		},
		keywords: map[string]float64{
			"dolar": 2, "mercado": 1, "acciones": 1.5, "cotizacion": 2,
			"bonos": 2, "inversores": 1.5, "tasa de interes": 2,
			"divisas": 2, "bursatil": 2.5,
		},
	},
	World: {
		strong: map[string]float64{
			"onu": 3, "casa blanca": 3, "union europea": 3,
		},
		keywords: map[string]float64{
			"internacional": 1.5, "mundial": 1, "guerra": 1.5, "conflicto": 1,
			"frontera": 1, "tratado": 1.5, "cumbre": 1.5, "diplomacia": 2,
			"sanciones": 1.5, "embajada": 2,
		},
		negative: map[string]float64{
			"seleccion uruguaya": 2, "futbol": 2,
		},
	},
	Society: {
		strong: map[string]float64{
			"derechos humanos": 3,
		},
		keywords: map[string]float64{
			"sociedad": 2, "vecinos": 1.5, "barrio": 1.5, "comunidad": 1.5,
			"familias": 1, "pobreza": 2, "vivienda": 1.5, "genero": 1.5,
			"protesta": 1.5, "sindicato": 1.5, "jubilados": 1.5, "infancia": 1.5,
		},
	},
	Education: {
		strong: map[string]float64{
			"anep": 3, "udelar": 3, "universidad de la republica": 3,
		},
		keywords: map[string]float64{
			"educacion": 2.5, "escuela": 2, "liceo": 2.5, "docentes": 2,
			"estudiantes": 1.5, "matricula": 1.5, "primaria": 1.5,
			"secundaria": 1.5, "boletin": 1, "beca": 1.5,
		},
	},
	Health: {
		strong: map[string]float64{
			"asse": 3, "vacunacion": 3, "mutualista": 3,
		},
		keywords: map[string]float64{
			"salud": 2, "hospital": 2, "medicos": 1.5, "vacuna": 2,
			"enfermedad": 1.5, "pacientes": 1.5, "epidemia": 2, "dengue": 2.5,
			"clinica": 1.5, "emergencia medica": 2,
		},
	},
	Science: {
		strong: map[string]float64{
			"investigacion cientifica": 3, "nasa": 3,
		},
		keywords: map[string]float64{
			"ciencia": 2.5, "cientificos": 2, "estudio": 1, "laboratorio": 1.5,
			"descubrimiento": 2, "genoma": 2, "astronomia": 2, "fosil": 2,
			"satelite": 1.5, "experimento": 1.5,
		},
	},
	Technology: {
		strong: map[string]float64{
			"inteligencia artificial": 3,
		},
		keywords: map[string]float64{
			"tecnologia": 2.5, "software": 2, "aplicacion": 1.5, "internet": 1.5,
			"datos": 1, "digital": 1.5, "robot": 1.5, "chip": 1.5,
			"smartphone": 1.5, "plataforma": 1, "algoritmo": 2,
			"ciberseguridad": 2,
		},
	},
	Energy: {
		strong: map[string]float64{
			"ute": 3, "ancap": 3, "energia renovable": 3, "hidrogeno verde": 3,
		},
		keywords: map[string]float64{
			"energia": 2, "electricidad": 2, "petroleo": 2, "combustible": 2,
			"eolica": 2, "solar": 1.5, "refineria": 2, "nafta": 1.5,
			"gasoil": 1.5, "represa": 2,
		},
	},
	Environment: {
		strong: map[string]float64{
			"cambio climatico": 3, "medio ambiente": 3,
		},
		keywords: map[string]float64{
			"ambiental": 2, "contaminacion": 2, "sequia": 2,
			"inundaciones": 1.5, "biodiversidad": 2, "reciclaje": 2,
			"deforestacion": 2, "cianobacterias": 2.5, "humedales": 2,
		},
	},
	Security: {
		strong: map[string]float64{
			"homicidio": 3, "narcotrafico": 3, "operativo policial": 3,
		},
		keywords: map[string]float64{
			"policia": 2, "delito": 2, "rapina": 2.5, "violencia": 1.5,
			"carcel": 1.5, "fiscalia": 1.5, "detenido": 1.5, "incautacion": 2,
			"femicidio": 2.5, "balacera": 2.5,
		},
	},
	Culture: {
		strong: map[string]float64{
			"carnaval": 3, "candombe": 3,
		},
		keywords: map[string]float64{
			"cultura": 2, "musica": 1.5, "teatro": 2, "cine": 1.5,
			"festival": 1.5, "museo": 2, "literatura": 2, "artista": 1.5,
			"exposicion": 1.5, "murga": 2.5, "concierto": 1.5,
		},
	},
	Sports: {
		strong: map[string]float64{
			"futbol": 3, "seleccion uruguaya": 3, "penarol": 3,
			"copa libertadores": 3, "futbolista": 3,
		},
		keywords: map[string]float64{
			"gol": 2, "goles": 2, "torneo": 1.5, "campeonato": 1.5,
			"estadio": 1.5, "jugador": 2, "basquetbol": 2, "arbitro": 2,
			"hincha": 2, "delantero": 2, "arquero": 2, "tribuna": 1.5,
			"partido": 1,
		},
		negative: map[string]float64{
			"partido politico": 2, "partido nacional": 2, "partido colorado": 2,
		},
	},
}

// sportsAnchors must appear (or a score-like "2-1" pattern) before Sports
// can win at all; "campeonato" alone also shows up in political prose.
var sportsAnchors = []string{
	"futbol", "futbolista", "gol", "goles", "estadio", "jugador",
	"seleccion uruguaya", "penarol", "copa", "hincha", "arquero",
	"delantero", "arbitro", "basquetbol", "rugby", "tenis", "atletismo",
}

// dominators is government/finance vocabulary that, in numbers, signals the
// story is not about sport no matter what collided.
var dominators = []string{
	"presidente", "gobierno", "ministro", "parlamento", "senado",
	"diputados", "decreto", "inflacion", "banco central", "impuestos",
	"fiscalia", "elecciones",
}
