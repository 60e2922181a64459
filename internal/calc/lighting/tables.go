package lighting

type RoomType string

const (
	LivingRoom  RoomType = "living_room"
	Bedroom     RoomType = "bedroom"
	Kitchen     RoomType = "kitchen"
	Bathroom    RoomType = "bathroom"
	DiningRoom  RoomType = "dining_room"
	Hallway     RoomType = "hallway"
	Office      RoomType = "office"
	Classroom   RoomType = "classroom"
	Conference  RoomType = "conference"
	Warehouse   RoomType = "warehouse"
	Workshop    RoomType = "workshop"
	RetailFloor RoomType = "retail_floor"
	Ward        RoomType = "ward"
	Laboratory  RoomType = "laboratory"
	Storage     RoomType = "storage"
)

type roomSpec struct {
	Lux float64
	UF  float64
}

// Maintained illuminance (lx) and utilization factor per room type.
var rooms = map[RoomType]roomSpec{
	LivingRoom:  {Lux: 150, UF: 0.5},
	Bedroom:     {Lux: 100, UF: 0.5},
	Kitchen:     {Lux: 300, UF: 0.5},
	Bathroom:    {Lux: 150, UF: 0.5},
	DiningRoom:  {Lux: 150, UF: 0.5},
	Hallway:     {Lux: 100, UF: 0.4},
	Office:      {Lux: 500, UF: 0.6},
	Classroom:   {Lux: 300, UF: 0.6},
	Conference:  {Lux: 300, UF: 0.6},
	Warehouse:   {Lux: 200, UF: 0.6},
	Workshop:    {Lux: 500, UF: 0.6},
	RetailFloor: {Lux: 500, UF: 0.6},
	Ward:        {Lux: 300, UF: 0.55},
	Laboratory:  {Lux: 500, UF: 0.6},
	Storage:     {Lux: 100, UF: 0.4},
}

func (r RoomType) Valid() bool {
	_, ok := rooms[r]
	return ok
}

type Type string

const (
	LED          Type = "led"
	Fluorescent  Type = "fluorescent"
	CFL          Type = "cfl"
	Halogen      Type = "halogen"
	Incandescent Type = "incandescent"
	HID          Type = "hid"
)

type lampSpec struct {
	Efficacy    float64 // lm/W
	Maintenance float64
}

var lamps = map[Type]lampSpec{
	LED:          {Efficacy: 100, Maintenance: 0.80},
	Fluorescent:  {Efficacy: 80, Maintenance: 0.75},
	CFL:          {Efficacy: 60, Maintenance: 0.75},
	Halogen:      {Efficacy: 20, Maintenance: 0.80},
	Incandescent: {Efficacy: 12, Maintenance: 0.80},
	HID:          {Efficacy: 90, Maintenance: 0.70},
}

func (t Type) Valid() bool {
	_, ok := lamps[t]
	return ok
}

type ControlSystem string

const (
	Manual          ControlSystem = "manual"
	OccupancySensor ControlSystem = "occupancy_sensor"
	DaylightDimming ControlSystem = "daylight_dimming"
	Timer           ControlSystem = "timer"
	Smart           ControlSystem = "smart"
)

var controlModifier = map[ControlSystem]float64{
	Manual:          0.90,
	OccupancySensor: 0.80,
	DaylightDimming: 0.75,
	Timer:           0.85,
	Smart:           0.70,
}

func (c ControlSystem) Valid() bool {
	_, ok := controlModifier[c]
	return ok
}

const (
	minRoomPower         = 40.0 // W
	defaultCeilingHeight = 2.4  // m
	highCeiling          = 3.0  // m
	highCeilingUF        = 0.9
	circuitLimit         = 10.0 // A per lighting circuit
	densityWarning       = 15.0 // W/m²
)
