package document

import "encoding/json"

// Seed returns the initial portfolio content used when the document does
// not exist yet in the store. Racing initializers both write the same
// bytes, so last write wins without corruption.
func Seed() Portfolio {
	return Portfolio{
		StudentInfo: StudentInfo{
			Name:   "فيصل فهد الزهراني",
			Grade:  Translatable{Ar: "1 / 3 (الأول المتوسط)", En: "1 / 3 (First Intermediate)"},
			School: "مدارس الأندلس – المنار",
			Email:  "f.alzahrani@gmail.com",
			About: Translatable{
				Ar: "طالب طموح في الصف الأول المتوسط، أسعى دائمًا لتطوير مهاراتي الأكاديمية والشخصية. أؤمن بأن التعلم رحلة مستمرة، وهذا الملف هو مرآة لجهودي وإنجازاتي.",
				En: "An ambitious first-intermediate grade student, always striving to develop my academic and personal skills. I believe that learning is a continuous journey, and this portfolio is a reflection of my efforts and achievements.",
			},
		},
		Education: []EducationItem{
			{ID: "edu1", Degree: Translatable{Ar: "المرحلة الابتدائية", En: "Elementary School"}, Institution: Translatable{Ar: "مدارس الأندلس", En: "Al-Andalus Schools"}, Years: "2017 - 2023"},
			{ID: "edu2", Degree: Translatable{Ar: "المرحلة المتوسطة", En: "Intermediate School"}, Institution: Translatable{Ar: "مدارس الأندلس – المنار", En: "Al-Andalus Schools - Al-Manar"}, Years: "2023 - الآن"},
		},
		Skills: []Skill{
			{ID: "skill1", Name: Translatable{Ar: "الحساب الذهني", En: "Mental Math"}, Level: 90},
			{ID: "skill2", Name: Translatable{Ar: "البرمجة (سكراتش)", En: "Programming (Scratch)"}, Level: 75},
			{ID: "skill3", Name: Translatable{Ar: "اللغة الإنجليزية", En: "English Language"}, Level: 85},
			{ID: "skill4", Name: Translatable{Ar: "مهارات العرض والتقديم", En: "Presentation Skills"}, Level: 80},
		},
		VolunteerWork: []VolunteerWork{
			{
				ID:           "vol1",
				Organization: Translatable{Ar: "حملة تنظيف الشاطئ", En: "Beach Cleanup Campaign"},
				Role:         Translatable{Ar: "عضو فريق", En: "Team Member"},
				Description:  Translatable{Ar: "المشاركة في تنظيف شاطئ جدة ضمن مبادرة مدرسية للحفاظ على البيئة.", En: "Participated in cleaning Jeddah beach as part of a school initiative to preserve the environment."},
				Years:        "2023",
			},
		},
		Hobbies: []Hobby{
			{ID: "hob1", Name: Translatable{Ar: "كرة القدم", En: "Football"}, Icon: "football"},
			{ID: "hob2", Name: Translatable{Ar: "الحساب الذهني", En: "Mental Math"}, Icon: "calculator"},
			{ID: "hob3", Name: Translatable{Ar: "القراءة", En: "Reading"}, Icon: "book"},
		},
		Goals: Goals{
			ShortTerm: []Goal{
				{ID: "stg1", Text: Translatable{Ar: "الحصول على معدل 98% في نهاية الفصل الدراسي", En: "Achieve a 98% average at the end of the semester"}, Type: GoalShortTerm},
				{ID: "stg2", Text: Translatable{Ar: "الفوز في مسابقة الحساب الذهني على مستوى المدرسة", En: "Win the school-level mental math competition"}, Type: GoalShortTerm},
			},
			LongTerm: []Goal{
				{ID: "ltg1", Text: Translatable{Ar: "دراسة هندسة الحاسب الآلي في جامعة مرموقة", En: "Study Computer Engineering at a prestigious university"}, Type: GoalLongTerm},
				{ID: "ltg2", Text: Translatable{Ar: "تمثيل المنتخب السعودي لكرة القدم", En: "Represent the Saudi national football team"}, Type: GoalLongTerm},
			},
		},
		Gallery: []GalleryItem{
			{ID: "gal1", Title: Translatable{Ar: "شهادة تفوق", En: "Certificate of Excellence"}, Description: Translatable{Ar: "شهادة تفوق للعام الدراسي 2022-2023", En: "Certificate of excellence for the academic year 2022-2023"}, Type: GalleryImage, Year: 2023, URL: "https://picsum.photos/seed/cert1/800/600"},
			{ID: "gal2", Title: Translatable{Ar: "مشروع العلوم", En: "Science Project"}, Description: Translatable{Ar: "فيديو عن مشروع الدائرة الكهربائية", En: "Video about the electric circuit project"}, Type: GalleryVideo, Year: 2023, URL: "https://www.w3schools.com/html/mov_bbb.mp4", ThumbnailURL: "https://picsum.photos/seed/vid1/800/600"},
			{ID: "gal3", Title: Translatable{Ar: "بحث عن الفضاء", En: "Research on Space"}, Description: Translatable{Ar: "ملف PDF يحتوي على بحث متكامل عن الكواكب", En: "A PDF file containing comprehensive research about planets"}, Type: GalleryPDF, Year: 2022, URL: "#"},
			{ID: "gal4", Title: Translatable{Ar: "ميدالية بطولة كرة القدم", En: "Football Championship Medal"}, Description: Translatable{Ar: "الفوز بالمركز الأول في البطولة المدرسية", En: "Winning first place in the school tournament"}, Type: GalleryImage, Year: 2022, URL: "https://picsum.photos/seed/medal1/800/600"},
		},
		FeaturedProject: FeaturedProject{
			Title:       Translatable{Ar: "مشروعي: نظام الري الذكي", En: "My Project: Smart Irrigation System"},
			Description: Translatable{Ar: "مشروع مدرسي يهدف إلى تصميم نظام ري أوتوماتيكي باستخدام حساسات الرطوبة لترشيد استهلاك المياه.", En: "A school project aimed at designing an automatic irrigation system using moisture sensors to rationalize water consumption."},
			Details:     Translatable{Ar: "تم استخدام لوحة أردوينو وحساسات للرطوبة ومضخة مياه صغيرة. النظام يقوم بقياس رطوبة التربة تلقائيًا وتشغيل الري عند الحاجة فقط، مما يوفر ما يصل إلى 60% من المياه مقارنة بالري التقليدي.", En: "An Arduino board, moisture sensors, and a small water pump were used. The system automatically measures soil moisture and activates irrigation only when needed, saving up to 60% of water compared to traditional methods."},
			ImageURL:    "https://picsum.photos/seed/project1/1200/800",
		},
		Evaluations: []Evaluation{
			{ID: "eval1", Author: "الأستاذ أحمد", Role: Translatable{Ar: "معلم الرياضيات", En: "Math Teacher"}, Comment: Translatable{Ar: "فيصل طالب متميز في الرياضيات، يمتلك قدرة فريدة على حل المسائل المعقدة بسرعة. أتمنى له كل التوفيق.", En: "Faisal is an outstanding math student with a unique ability to solve complex problems quickly. I wish him all the best."}},
			{ID: "eval2", Author: "الكابتن سامي", Role: Translatable{Ar: "مدرب كرة القدم", En: "Football Coach"}, Comment: Translatable{Ar: "لاعب موهوب ويتمتع بروح الفريق. التزامه بالتدريب يجعله قدوة لزملائه.", En: "A talented player with great team spirit. His commitment to training makes him a role model for his teammates."}},
		},
	}
}

// SeedJSON is Seed marshaled once, as handed to InitializeIfAbsent.
func SeedJSON() (json.RawMessage, error) {
	data, err := json.Marshal(Seed())
	if err != nil {
		return nil, err
	}
	return data, nil
}
