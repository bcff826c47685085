package agmarknet

// Mapping ties a display name to the identifier Agmarknet expects in its
// query string.
type Mapping struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

// Commodities lists the commodities the fetcher can resolve, with their
// Agmarknet commodity ids.
var Commodities = []Mapping{
	{Text: "Potato", Value: "24"},
	{Text: "Onion", Value: "23"},
	{Text: "Tomato", Value: "78"},
	{Text: "Rice", Value: "17"},
	{Text: "Paddy(Dhan)(Common)", Value: "2"},
	{Text: "Wheat", Value: "1"},
	{Text: "Maize", Value: "4"},
	{Text: "Jowar(Sorghum)", Value: "5"},
	{Text: "Bajra(Pearl Millet/Cumbu)", Value: "28"},
	{Text: "Ragi (Finger Millet)", Value: "29"},
	{Text: "Bengal Gram(Gram)(Whole)", Value: "6"},
	{Text: "Arhar (Tur/Red Gram)(Whole)", Value: "49"},
	{Text: "Green Gram (Moong)(Whole)", Value: "9"},
	{Text: "Black Gram (Urd Beans)(Whole)", Value: "8"},
	{Text: "Masur Dal", Value: "259"},
	{Text: "Groundnut", Value: "10"},
	{Text: "Mustard", Value: "12"},
	{Text: "Soyabean", Value: "13"},
	{Text: "Sunflower", Value: "53"},
	{Text: "Sesamum(Sesame,Gingelly,Til)", Value: "11"},
	{Text: "Cotton", Value: "15"},
	{Text: "Sugarcane", Value: "166"},
	{Text: "Jute", Value: "99"},
	{Text: "Turmeric", Value: "39"},
	{Text: "Ginger(Green)", Value: "103"},
	{Text: "Garlic", Value: "25"},
	{Text: "Green Chilli", Value: "87"},
	{Text: "Dry Chillies", Value: "26"},
	{Text: "Coriander(Leaves)", Value: "43"},
	{Text: "Cabbage", Value: "154"},
	{Text: "Cauliflower", Value: "34"},
	{Text: "Brinjal", Value: "35"},
	{Text: "Bhindi(Ladies Finger)", Value: "85"},
	{Text: "Bitter gourd", Value: "81"},
	{Text: "Bottle gourd", Value: "82"},
	{Text: "Cucumbar(Kheera)", Value: "159"},
	{Text: "Carrot", Value: "20"},
	{Text: "Peas Wet", Value: "174"},
	{Text: "Banana", Value: "19"},
	{Text: "Mango", Value: "20"},
	{Text: "Apple", Value: "18"},
	{Text: "Grapes", Value: "22"},
	{Text: "Papaya", Value: "72"},
	{Text: "Pomegranate", Value: "190"},
	{Text: "Orange", Value: "21"},
	{Text: "Lemon", Value: "307"},
	{Text: "Coconut", Value: "138"},
	{Text: "Arecanut(Betelnut/Supari)", Value: "140"},
	{Text: "Tea", Value: "167"},
	{Text: "Coffee", Value: "168"},
}

// States maps Indian state names to Agmarknet state codes.
var States = []Mapping{
	{Text: "Andaman and Nicobar", Value: "AN"},
	{Text: "Andhra Pradesh", Value: "AP"},
	{Text: "Arunachal Pradesh", Value: "AR"},
	{Text: "Assam", Value: "AS"},
	{Text: "Bihar", Value: "BI"},
	{Text: "Chandigarh", Value: "CH"},
	{Text: "Chattisgarh", Value: "CG"},
	{Text: "Goa", Value: "GO"},
	{Text: "Gujarat", Value: "GJ"},
	{Text: "Haryana", Value: "HR"},
	{Text: "Himachal Pradesh", Value: "HP"},
	{Text: "Jammu and Kashmir", Value: "JK"},
	{Text: "Jharkhand", Value: "JR"},
	{Text: "Karnataka", Value: "KK"},
	{Text: "Kerala", Value: "KL"},
	{Text: "Madhya Pradesh", Value: "MP"},
	{Text: "Maharashtra", Value: "MH"},
	{Text: "Manipur", Value: "MN"},
	{Text: "Meghalaya", Value: "MG"},
	{Text: "Mizoram", Value: "MZ"},
	{Text: "Nagaland", Value: "NG"},
	{Text: "NCT of Delhi", Value: "DL"},
	{Text: "Odisha", Value: "OR"},
	{Text: "Pondicherry", Value: "PC"},
	{Text: "Punjab", Value: "PB"},
	{Text: "Rajasthan", Value: "RJ"},
	{Text: "Sikkim", Value: "SK"},
	{Text: "Tamil Nadu", Value: "TN"},
	{Text: "Telangana", Value: "TL"},
	{Text: "Tripura", Value: "TR"},
	{Text: "Uttar Pradesh", Value: "UP"},
	{Text: "Uttrakhand", Value: "UC"},
	{Text: "West Bengal", Value: "WB"},
}
