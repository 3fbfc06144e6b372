package metar

// wxCodes maps OpenWeatherMap present-weather condition ids to METAR
// phenomenon codes (https://openweathermap.org/weather-conditions).
// Ids >= 800 are clear/cloud-only states and are never emitted as phenomena.
var wxCodes = map[int]string{
	200: "TS -RA",  // thunderstorm, light rain
	201: "TSRA",    // thunderstorm, rain
	202: "TS +RA",  // thunderstorm, heavy rain
	210: "-TS",     // light thunderstorm
	211: "TS",      // thunderstorm
	212: "+TS",     // heavy thunderstorm
	221: "TS",      // ragged thunderstorm
	230: "TS -DZ",  // thunderstorm, light drizzle
	231: "TSDZ",    // thunderstorm, drizzle
	232: "TS +DZ",  // thunderstorm, heavy drizzle

	300: "-DZ",     // light drizzle
	301: "DZ",      // drizzle
	302: "+DZ",     // heavy drizzle
	310: "-DZRA",   // light drizzle, rain
	311: "DZRA",    // drizzle, rain
	312: "+DZRA",   // heavy drizzle, rain
	313: "SHRADZ",  // rain showers, drizzle
	314: "+SHRADZ", // heavy rain showers, drizzle
	321: "SHDZ",    // drizzle showers

	500: "-RA",   // light rain
	501: "RA",    // rain
	502: "+RA",   // heavy rain
	503: "+RA",   // very heavy rain
	504: "+RA",   // extreme rain
	511: "FZRA",  // freezing rain
	520: "-SHRA", // light rain showers
	521: "SHRA",  // rain showers
	522: "+SHRA", // heavy rain showers
	531: "SHRA",  // ragged rain showers

	600: "-SN",    // light snow
	601: "SN",     // snow
	602: "+SN",    // heavy snow
	611: "RASN",   // rain and snow (sleet)
	612: "SHRASN", // rain and snow showers
	615: "-RASN",  // light rain and snow
	616: "RASN",   // rain and snow
	620: "-SHSN",  // light snow showers
	621: "SHSN",   // snow showers
	622: "+SHSN",  // heavy snow showers

	701: "BR", // mist
	711: "FU", // smoke
	721: "HZ", // haze
	731: "PO", // sand or dust swirls
	741: "FG", // fog
	751: "SA", // sand
	761: "DU", // widespread dust
	762: "VA", // volcanic ash
	771: "SQ", // squalls
	781: "FC", // funnel cloud

	800: "SKC", // sky clear
	801: "FEW", // 1-2 oktas of cloud
	802: "SCT", // 3-4 oktas of cloud
	803: "BKN", // 5-6 oktas of cloud
	804: "OVC", // 7-8 oktas of cloud
}
