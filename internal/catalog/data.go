package catalog

// Course is a catalog entry. The list is static; per-user enrollment and
// progress live on the user record.
type Course struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Category    string `json:"category"`
}

type Article struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"img"`
	Link        string `json:"link"`
}

// GameInfo is the catalog card for a mini-game; the playable engines
// live in internal/games.
type GameInfo struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Rating      float64 `json:"rating"`
}

var courses = []Course{
	{ID: "adhd-fundamentals", Title: "ADHD Fundamentals", Description: "Explore the basics of ADHD and strategies for managing attention and focus.", Duration: "00:45", Category: "Cognitive"},
	{ID: "time-management-adhd", Title: "Time Management for ADHD", Description: "Learn practical techniques to organize tasks and manage time effectively with ADHD.", Duration: "00:40", Category: "Cognitive"},
	{ID: "adhd-emotional-regulation", Title: "ADHD and Emotional Regulation", Description: "Understand emotional challenges with ADHD and develop coping skills.", Duration: "00:35", Category: "Mental Health"},
	{ID: "dyslexia-reading-strategies", Title: "Dyslexia Reading Strategies", Description: "Master techniques to improve reading fluency and comprehension.", Duration: "00:50", Category: "Reading"},
	{ID: "autism-social-communication", Title: "Autism and Social Communication", Description: "Build skills for effective social interaction and understanding cues.", Duration: "00:30", Category: "Social"},
	{ID: "motor-skills-development", Title: "Motor Skills Development", Description: "Enhance coordination and fine motor skills through targeted exercises.", Duration: "00:25", Category: "Motor Skills"},
	{ID: "understanding-dyscalculia", Title: "Understanding Dyscalculia", Description: "Learn about math-related challenges and strategies to overcome them.", Duration: "00:40", Category: "Mathematics"},
	{ID: "ocd-coping-mechanisms", Title: "OCD Coping Mechanisms", Description: "Develop tools to manage obsessive-compulsive behaviors effectively.", Duration: "00:35", Category: "Psychological"},
	{ID: "bipolar-disorder-basics", Title: "Bipolar Disorder Basics", Description: "Gain insights into bipolar disorder and mood management techniques.", Duration: "00:45", Category: "Mental Health"},
	{ID: "sensory-processing-skills", Title: "Sensory Processing Skills", Description: "Explore sensory sensitivities and ways to adapt daily routines.", Duration: "00:30", Category: "Perception"},
	{ID: "down-syndrome-learning", Title: "Down Syndrome Learning Strategies", Description: "Discover tailored approaches to support learning with Down Syndrome.", Duration: "00:50", Category: "Genetic"},
	{ID: "anatomy-physiology", Title: "Anatomy and Physiology", Description: "Understand the structure and function of the human body.", Duration: "00:30", Category: "Reading"},
	{ID: "pharmacology-basics", Title: "Pharmacology Basics", Description: "Learn basic medical language for effective communication.", Duration: "00:30", Category: "Social"},
	{ID: "medical-ethics", Title: "Medical Ethics and Professionalism", Description: "Understand ethical principles and professionalism in healthcare.", Duration: "00:30", Category: "Neurological"},
	{ID: "disease-pathophysiology", Title: "Disease Pathophysiology", Description: "Study the cellular and molecular basis of common diseases.", Duration: "00:30", Category: "Motor Skills"},
}

var articles = []Article{
	{ID: "understanding-neurodiversity", Title: "Understanding Neurodiversity", Description: "An overview of neurodiversity and how it embraces different cognitive styles.", Image: "https://source.unsplash.com/500x300/?brain,neuroscience", Link: "#"},
	{ID: "autism-supportive-strategies", Title: "Autism and Supportive Strategies", Description: "How to create an inclusive environment for individuals with autism.", Image: "https://source.unsplash.com/500x300/?autism,support", Link: "#"},
	{ID: "adhd-myths-facts", Title: "ADHD: Myths and Facts", Description: "Debunking common myths and providing factual insights about ADHD.", Image: "https://source.unsplash.com/500x300/?focus,adhd", Link: "#"},
	{ID: "dyslexia-early-detection", Title: "Dyslexia: Early Detection & Intervention", Description: "The importance of early diagnosis and effective learning techniques for dyslexia.", Image: "https://source.unsplash.com/500x300/?reading,learning", Link: "#"},
	{ID: "can-neurodivergence-be-cured", Title: "Can Neurodivergence be Cured?", Description: "Exploring the scientific perspective on whether neurodivergent conditions can or should be 'cured.'", Image: "https://source.unsplash.com/500x300/?research,science", Link: "#"},
}

var gameInfos = []GameInfo{
	{ID: "memory", Title: "Memory Match", Description: "Test your memory with this fun card-matching game!", Category: "memory", Rating: 4.5},
	{ID: "trace", Title: "Letter Tracer", Description: "Trace letters accurately to build writing confidence.", Category: "skill", Rating: 4.5},
	{ID: "scoopd", Title: "Scoop'd", Description: "Catch the falling target letters before they hit the ground.", Category: "skill", Rating: 4.2},
	{ID: "pattern", Title: "Pattern Master", Description: "Spot the patterns in this brain-teasing challenge.", Category: "logic", Rating: 4.3},
	{ID: "emotion", Title: "Emotion Match", Description: "Match emotions to improve emotional intelligence.", Category: "social", Rating: 4.6},
	{ID: "focus", Title: "Focus Trainer", Description: "Enhance your concentration with this trainer.", Category: "brain", Rating: 4.4},
}
