package clues

// wordBank is the built-in clue pool, grouped by category.
var wordBank = map[string][]string{
	"Movies": {
		"The Godfather", "Titanic", "Star Wars", "Jurassic Park", "Avatar",
		"The Avengers", "The Lion King", "Frozen", "Harry Potter", "The Matrix",
		"Inception", "Forrest Gump", "Back to the Future", "Ghostbusters", "Jaws",
		"The Dark Knight", "Pulp Fiction", "The Wizard of Oz", "Finding Nemo",
		"Toy Story", "Shrek", "Spider-Man", "Wonder Woman", "Black Panther",
		"Up", "Inside Out", "Moana", "Aladdin", "Beauty and the Beast", "Mulan",
		"Home Alone", "Elf", "Die Hard", "Rocky", "Terminator", "Gladiator",
		"Interstellar", "Gravity", "La La Land", "Joker", "Parasite", "Top Gun",
		"Mission Impossible", "James Bond", "Indiana Jones", "The Lord of the Rings",
		"The Hunger Games", "The Notebook", "Grease", "Mary Poppins",
	},
	"TV Shows": {
		"Friends", "The Office", "Game of Thrones", "Breaking Bad", "Stranger Things",
		"Squid Game", "The Mandalorian", "The Witcher", "Ted Lasso", "The Bear",
		"Modern Family", "The Big Bang Theory", "How I Met Your Mother", "Seinfeld",
		"Lost", "The Sopranos", "The Wire", "Mad Men", "Downton Abbey", "Sherlock",
		"Doctor Who", "Black Mirror", "Rick and Morty", "The Simpsons", "South Park",
		"SpongeBob SquarePants", "Pokemon", "Naruto", "Attack on Titan",
		"Brooklyn Nine-Nine", "Parks and Recreation", "Wednesday", "The Last of Us",
		"Better Call Saul", "Peaky Blinders", "Survivor",
	},
	"Actions": {
		"Brushing teeth", "Cooking dinner", "Driving a car", "Playing guitar",
		"Swimming", "Fishing", "Skiing", "Surfing", "Skateboarding", "Riding a bike",
		"Walking a dog", "Mowing the lawn", "Vacuuming", "Washing dishes",
		"Reading a book", "Painting a picture", "Taking a selfie", "Dancing",
		"Juggling", "Climbing a mountain", "Shoveling snow", "Building a sandcastle",
		"Blowing out candles", "Opening a present", "Making a snowman",
		"Flying a kite", "Doing yoga", "Lifting weights", "Typing on a keyboard",
		"Changing a tire", "Milking a cow", "Directing traffic",
	},
	"Animals": {
		"Elephant", "Giraffe", "Penguin", "Kangaroo", "Monkey", "Lion", "Tiger",
		"Dolphin", "Shark", "Octopus", "Butterfly", "Spider", "Snake", "Eagle",
		"Owl", "Flamingo", "Peacock", "Sloth", "Koala", "Panda", "Gorilla",
		"Hippopotamus", "Rhinoceros", "Crocodile", "Turtle", "Rabbit", "Squirrel",
		"Hedgehog", "Bat", "Wolf", "Fox", "Bear", "Moose", "Camel", "Llama",
	},
	"Objects": {
		"Umbrella", "Telescope", "Microwave", "Lawnmower", "Toothbrush",
		"Hairdryer", "Stapler", "Scissors", "Flashlight", "Backpack", "Ladder",
		"Hammock", "Typewriter", "Compass", "Binoculars", "Wheelbarrow",
		"Fire extinguisher", "Vending machine", "Treadmill", "Trampoline",
		"Washing machine", "Refrigerator", "Vacuum cleaner", "Alarm clock",
		"Rubber duck", "Snow globe", "Boomerang", "Kaleidoscope",
	},
	"Famous People": {
		"Albert Einstein", "Abraham Lincoln", "Cleopatra", "Napoleon",
		"William Shakespeare", "Leonardo da Vinci", "Mozart", "Beethoven",
		"Charlie Chaplin", "Elvis Presley", "Michael Jackson", "Madonna",
		"Muhammad Ali", "Michael Jordan", "Serena Williams", "Usain Bolt",
		"Neil Armstrong", "Amelia Earhart", "Marie Curie", "Isaac Newton",
		"Walt Disney", "Steve Jobs", "Oprah Winfrey", "Mr. Bean",
	},
	"Phrases": {
		"Break a leg", "Piece of cake", "Raining cats and dogs", "Hit the hay",
		"Spill the beans", "Under the weather", "Cold feet", "Couch potato",
		"Early bird", "Night owl", "Busy as a bee", "Fish out of water",
		"Elephant in the room", "Once in a blue moon", "Bite the bullet",
		"Butterflies in my stomach", "Head in the clouds", "Hold your horses",
		"Let the cat out of the bag", "On thin ice", "Walking on sunshine",
	},
}
